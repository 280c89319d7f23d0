package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/client"
	"github.com/carloszaep/my-prostore/internal/config"
	"github.com/carloszaep/my-prostore/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// unique shared-cache name so parallel tests don't see each other's data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func testStore() config.Store {
	return config.Store{
		PaymentMethods:       []string{model.PaymentMethodPayPal, model.PaymentMethodStripe, model.PaymentMethodCOD},
		DefaultPaymentMethod: model.PaymentMethodPayPal,
		FreeShippingMin:      "100",
		ShippingPrice:        "10",
		TaxRate:              "0.15",
		PageSize:             12,
	}
}

func testPolicy(t *testing.T) Policy {
	t.Helper()
	policy, err := ParsePolicy(testStore())
	require.NoError(t, err)
	return policy
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func testAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:      "Jane Buyer",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		PostalCode:    "12345",
		Country:       "US",
	}
}

func seedProduct(t *testing.T, db *gorm.DB, name, slug, price string, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:     name,
		Slug:     slug,
		Category: "Shirts",
		Brand:    "Acme",
		Price:    dec(t, price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedUser(t *testing.T, db *gorm.DB, email string, address *model.ShippingAddress, paymentMethod string) *model.User {
	t.Helper()

	user := &model.User{
		Name:          "Jane Buyer",
		Email:         email,
		Password:      "x",
		Role:          model.RoleUser,
		Address:       address,
		PaymentMethod: paymentMethod,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedOrder(t *testing.T, db *gorm.DB, userID *string, items []model.OrderItem) *model.Order {
	t.Helper()

	itemsPrice := decimal.Zero
	for _, it := range items {
		itemsPrice = itemsPrice.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}

	order := &model.Order{
		UserID:          userID,
		ShippingAddress: testAddress(),
		PaymentMethod:   model.PaymentMethodPayPal,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   decimal.Zero,
		TaxPrice:        decimal.Zero,
		TotalPrice:      itemsPrice,
		Items:           items,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// fakeEmail records sends so tests can assert on notifications without SMTP.
type fakeEmail struct {
	receipts  int
	shipped   int
	resets    []string
	changed   int
}

func (f *fakeEmail) SendPurchaseReceipt(toName, toEmail string, order *model.Order) error {
	f.receipts++
	return nil
}

func (f *fakeEmail) SendOrderShipped(toName, toEmail string, order *model.Order) error {
	f.shipped++
	return nil
}

func (f *fakeEmail) SendResetPassword(toEmail, resetURL string) error {
	f.resets = append(f.resets, resetURL)
	return nil
}

func (f *fakeEmail) SendPasswordChanged(toName, toEmail string) error {
	f.changed++
	return nil
}

type fakePaypal struct {
	created       []decimal.Decimal
	createResult  *model.PaypalOrderResult
	captureResult *model.PaypalOrderResult
	captureErr    error
}

func (f *fakePaypal) CreateOrder(ctx context.Context, total decimal.Decimal) (*model.PaypalOrderResult, error) {
	f.created = append(f.created, total)
	return f.createResult, nil
}

func (f *fakePaypal) CaptureOrder(ctx context.Context, orderID string) (*model.PaypalOrderResult, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.captureResult, nil
}

type fakeStripe struct {
	intent *stripe.PaymentIntent
	event  stripe.Event
}

func (f *fakeStripe) CreatePaymentIntent(ctx context.Context, orderID string, total decimal.Decimal) (*stripe.PaymentIntent, error) {
	return f.intent, nil
}

func (f *fakeStripe) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return f.event, nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
