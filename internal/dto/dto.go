package dto

import (
	"github.com/shopspring/decimal"

	"github.com/carloszaep/my-prostore/internal/model"
)

// Result is the uniform action outcome shape handlers return. RedirectTo
// points the client at the checkout step still missing information.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Data       any    `json:"data,omitempty"`
}

type SignUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type PaymentMethodRequest struct {
	Type string `json:"type"`
}

type EditUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

type RemoveFromCartRequest struct {
	ProductID string `json:"productId"`
}

type ApprovePayPalRequest struct {
	OrderID string `json:"orderID"` // provider-side order id from the client SDK
}

type TrackingNumberRequest struct {
	TrackingNumber string `json:"trackingNumber"`
}

type FindOrderRequest struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
}

type ReviewRequest struct {
	ProductID   string `json:"productId"`
	Rating      int    `json:"rating"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsFeatured  bool            `json:"isFeatured"`
	Banner      *string         `json:"banner"`
	Size        *string         `json:"size"`
}

type CheckoutInfo struct {
	PaymentMethod string                 `json:"paymentMethod,omitempty"`
	Address       *model.ShippingAddress `json:"address,omitempty"`
	IsSignedIn    bool                   `json:"isSignedIn"`
}

type StripeIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// Paged wraps list endpoints that paginate.
type Paged[T any] struct {
	Data       []T   `json:"data"`
	TotalPages int64 `json:"totalPages"`
}
