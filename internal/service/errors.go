package service

import "errors"

var (
	ErrCartNotFound      = errors.New("cart session not found")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrNoShippingAddress = errors.New("no shipping address")
	ErrNoPaymentMethod   = errors.New("no payment method")
	ErrInvalidPayMethod  = errors.New("invalid payment method")
	ErrOutOfStock        = errors.New("not enough stock")

	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyPaid     = errors.New("order is already paid")
	ErrNotPaid         = errors.New("order is not paid")
	ErrPaymentMismatch = errors.New("error in payment verification")
	ErrNoUnpaidOrders  = errors.New("no unpaid orders found within 24h")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotAuthorized      = errors.New("not authorized")

	ErrReviewNotAllowed = errors.New("only verified buyers can review a product")
)
