package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/config"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

// Policy holds the checkout pricing knobs parsed once from config.
type Policy struct {
	FreeShippingMin decimal.Decimal
	ShippingPrice   decimal.Decimal
	TaxRate         decimal.Decimal
}

func ParsePolicy(cfg config.Store) (Policy, error) {
	freeMin, err := decimal.NewFromString(cfg.FreeShippingMin)
	if err != nil {
		return Policy{}, fmt.Errorf("parse FREE_SHIPPING_MIN: %w", err)
	}
	shipping, err := decimal.NewFromString(cfg.ShippingPrice)
	if err != nil {
		return Policy{}, fmt.Errorf("parse SHIPPING_PRICE: %w", err)
	}
	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return Policy{}, fmt.Errorf("parse TAX_RATE: %w", err)
	}

	return Policy{
		FreeShippingMin: freeMin,
		ShippingPrice:   shipping,
		TaxRate:         taxRate,
	}, nil
}

type CartService interface {
	// Get returns the session's cart, creating an empty one on first use.
	Get(ctx context.Context, sessionCartID string, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, sessionCartID, userID, productID string, qty int) (*model.Cart, error)
	// RemoveItem takes one unit off the line, dropping it at zero.
	RemoveItem(ctx context.Context, sessionCartID, productID string) (*model.Cart, error)
	// DeleteBySession removes the session's cart entirely; unknown sessions
	// are a no-op.
	DeleteBySession(ctx context.Context, sessionCartID string) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	policy      Policy
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, policy Policy) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		policy:      policy,
	}
}

func (s *cartService) Get(ctx context.Context, sessionCartID, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.FindBySessionID(ctx, sessionCartID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &model.Cart{
		SessionCartID: sessionCartID,
		ItemsPrice:    decimal.Zero,
		ShippingPrice: decimal.Zero,
		TaxPrice:      decimal.Zero,
		TotalPrice:    decimal.Zero,
	}
	if userID != "" {
		cart.UserID = &userID
	}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, sessionCartID, userID, productID string, qty int) (*model.Cart, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("qty must be positive")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	cart, err := s.Get(ctx, sessionCartID, userID)
	if err != nil {
		return nil, err
	}

	items := cart.Items
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			if items[i].Qty+qty > product.Stock {
				return nil, ErrOutOfStock
			}
			items[i].Qty += qty
			found = true
			break
		}
	}
	if !found {
		if qty > product.Stock {
			return nil, ErrOutOfStock
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, model.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			Image:     image,
			Size:      product.Size,
			Price:     product.Price,
			Qty:       qty,
		})
	}

	return s.save(ctx, cart, items)
}

func (s *cartService) RemoveItem(ctx context.Context, sessionCartID, productID string) (*model.Cart, error) {
	cart, err := s.cartRepo.FindBySessionID(ctx, sessionCartID)
	if err != nil {
		return nil, ErrCartNotFound
	}

	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID == productID {
			it.Qty--
			if it.Qty <= 0 {
				continue
			}
		}
		items = append(items, it)
	}

	return s.save(ctx, cart, items)
}

func (s *cartService) DeleteBySession(ctx context.Context, sessionCartID string) error {
	cart, err := s.cartRepo.FindBySessionID(ctx, sessionCartID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.cartRepo.Delete(ctx, cart.ID)
}

func (s *cartService) save(ctx context.Context, cart *model.Cart, items []model.CartItem) (*model.Cart, error) {
	itemsPrice, shippingPrice, taxPrice, totalPrice := s.totals(items)
	cart.ItemsPrice = itemsPrice
	cart.ShippingPrice = shippingPrice
	cart.TaxPrice = taxPrice
	cart.TotalPrice = totalPrice

	if err := s.cartRepo.SaveItems(ctx, cart, items); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	cart.Items = items

	return cart, nil
}

// totals derives all cart prices from the line items: shipping is free above
// the threshold, tax applies to the items price, everything rounds to cents.
func (s *cartService) totals(items []model.CartItem) (itemsPrice, shippingPrice, taxPrice, totalPrice decimal.Decimal) {
	itemsPrice = decimal.Zero
	for _, it := range items {
		itemsPrice = itemsPrice.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	itemsPrice = itemsPrice.Round(2)

	shippingPrice = decimal.Zero
	if len(items) > 0 && itemsPrice.LessThan(s.policy.FreeShippingMin) {
		shippingPrice = s.policy.ShippingPrice
	}

	taxPrice = itemsPrice.Mul(s.policy.TaxRate).Round(2)
	totalPrice = itemsPrice.Add(shippingPrice).Add(taxPrice).Round(2)

	return itemsPrice, shippingPrice, taxPrice, totalPrice
}
