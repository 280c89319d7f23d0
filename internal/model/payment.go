package model

// ShippingAddress is stored as a JSON column on users, guests and orders.
// GuestEmail is only set during guest checkout.
type ShippingAddress struct {
	FullName      string   `json:"fullName"`
	StreetAddress string   `json:"streetAddress"`
	City          string   `json:"city"`
	PostalCode    string   `json:"postalCode"`
	Country       string   `json:"country"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	GuestEmail    string   `json:"guestEmail,omitempty"`
}

// PaymentResult is the normalized record of a provider confirmation. For a
// pending PayPal order only ID is set; capture fills in the rest.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	EmailAddress string `json:"email_address"`
	PricePaid    string `json:"pricePaid"`
}

const (
	PaymentMethodPayPal = "PayPal"
	PaymentMethodStripe = "Stripe"
	PaymentMethodCOD    = "CashOnDelivery"
)
