package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User's credential fields never leave the API: the password hash and the
// live reset token are json-hidden.
type User struct {
	ID                  string           `gorm:"primaryKey;size:36"`
	Name                string           `gorm:"size:255;not null"`
	Email               string           `gorm:"size:255;uniqueIndex;not null"`
	Password            string           `gorm:"size:255;not null" json:"-"`
	Role                string           `gorm:"size:16;index;not null;default:user"`
	Address             *ShippingAddress `gorm:"serializer:json"`
	PaymentMethod       string           `gorm:"size:32"`
	ResetToken          *string          `gorm:"size:64;index" json:"-"`
	ResetTokenExpiresAt *time.Time       `json:"-"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// GuestUser is an anonymous checkout identity keyed by email. It holds the
// address and payment method a guest entered; the cart links to it via
// Cart.GuestID until a signed-in user claims the cart.
type GuestUser struct {
	ID            string           `gorm:"primaryKey;size:36"`
	Email         string           `gorm:"size:255;uniqueIndex;not null"`
	Name          string           `gorm:"size:255"`
	Address       *ShippingAddress `gorm:"serializer:json"`
	PaymentMethod string           `gorm:"size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (g *GuestUser) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Cart belongs to exactly one of user or guest. Totals are derived from the
// items and recomputed on every mutation, never hand-edited.
type Cart struct {
	ID            string  `gorm:"primaryKey;size:36"`
	UserID        *string `gorm:"size:36;index"`
	GuestID       *string `gorm:"size:36;index"`
	SessionCartID string  `gorm:"size:64;uniqueIndex;not null"`
	Items         []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ItemsPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CartItem struct {
	ID        uint   `gorm:"primaryKey"`
	CartID    string `gorm:"size:36;index;not null"`
	ProductID string `gorm:"size:36;not null"`
	Name      string `gorm:"size:255;not null"`
	Slug      string `gorm:"size:255;not null"`
	Image     string
	Size      *string         `gorm:"size:32"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Qty       int             `gorm:"not null"`
	CreatedAt time.Time
}

// Products sharing a name represent size variants of the same article.
type Product struct {
	ID          string   `gorm:"primaryKey;size:36"`
	Name        string   `gorm:"size:255;index;not null"`
	Slug        string   `gorm:"size:255;uniqueIndex;not null"`
	Category    string   `gorm:"size:255;index;not null"`
	Brand       string   `gorm:"size:255;not null"`
	Description string
	Images      []string        `gorm:"serializer:json"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null"`
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
	NumReviews  int             `gorm:"not null;default:0"`
	IsFeatured  bool            `gorm:"not null;default:false"`
	Banner      *string
	Size        *string `gorm:"size:32"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Order is an immutable snapshot of the cart and shipping address at
// place-order time. Only the payment and fulfillment transitions mutate it.
type Order struct {
	ID              string  `gorm:"primaryKey;size:36"`
	UserID          *string `gorm:"size:36;index"`
	GuestID         *string `gorm:"size:36;index"`
	ShippingAddress ShippingAddress `gorm:"serializer:json;not null"`
	PaymentMethod   string          `gorm:"size:32;not null"`
	PaymentResult   *PaymentResult  `gorm:"serializer:json"`
	ItemsPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsPaid          bool            `gorm:"not null;default:false"`
	PaidAt          *time.Time
	IsDelivered     bool `gorm:"not null;default:false"`
	DeliveredAt     *time.Time
	TrackingNumber  *string     `gorm:"size:64"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem carries a denormalized copy of the product fields at order time
// so historical orders survive later catalog edits.
type OrderItem struct {
	OrderID   string `gorm:"primaryKey;size:36"`
	ProductID string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255;not null"`
	Slug      string `gorm:"size:255;not null"`
	Image     string
	Size      *string         `gorm:"size:32"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Qty       int             `gorm:"not null"`
	CreatedAt time.Time
}

type Review struct {
	ID                 string `gorm:"primaryKey;size:36"`
	UserID             string `gorm:"size:36;uniqueIndex:idx_review_user_product;not null"`
	ProductID          string `gorm:"size:36;uniqueIndex:idx_review_user_product;not null"`
	Rating             int    `gorm:"not null"`
	Title              string `gorm:"size:255;not null"`
	Description        string
	IsVerifiedPurchase bool `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// WebhookEvent records provider webhook deliveries already processed, so a
// redelivered event cannot run its side effects twice.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
