package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/config"
	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type UserService interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, name string) error
	UpdateAddress(ctx context.Context, userID string, address model.ShippingAddress) error
	UpdatePaymentMethod(ctx context.Context, userID, method string) error
	// CreateGuestWithAddress upserts the guest identity for the session's
	// cart from the address form (guest checkout has no account).
	CreateGuestWithAddress(ctx context.Context, sessionCartID string, address model.ShippingAddress) error
	UpdateGuestPaymentMethod(ctx context.Context, sessionCartID, method string) error
	// CheckoutInfo resolves address and payment method for whoever owns
	// the checkout: the signed-in user, or the cart's guest.
	CheckoutInfo(ctx context.Context, userID, sessionCartID string) (*dto.CheckoutInfo, error)
}

type userService struct {
	userRepo  repository.UserRepository
	guestRepo repository.GuestUserRepository
	cartRepo  repository.CartRepository
	store     config.Store
}

func NewUserService(
	userRepo repository.UserRepository,
	guestRepo repository.GuestUserRepository,
	cartRepo repository.CartRepository,
	store config.Store,
) UserService {
	return &userService{
		userRepo:  userRepo,
		guestRepo: guestRepo,
		cartRepo:  cartRepo,
		store:     store,
	}
}

func (s *userService) GetByID(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *userService) UpdateProfile(ctx context.Context, userID, name string) error {
	return s.userRepo.Updates(ctx, userID, &model.User{Name: name}, []string{"name"})
}

func (s *userService) UpdateAddress(ctx context.Context, userID string, address model.ShippingAddress) error {
	return s.userRepo.Updates(ctx, userID, &model.User{Address: &address}, []string{"address"})
}

func (s *userService) UpdatePaymentMethod(ctx context.Context, userID, method string) error {
	if !slices.Contains(s.store.PaymentMethods, method) {
		return fmt.Errorf("%w: %q", ErrInvalidPayMethod, method)
	}

	return s.userRepo.Updates(ctx, userID, &model.User{PaymentMethod: method}, []string{"payment_method"})
}

func (s *userService) CreateGuestWithAddress(ctx context.Context, sessionCartID string, address model.ShippingAddress) error {
	if address.GuestEmail == "" {
		return fmt.Errorf("guest email is required")
	}

	cart, err := s.cartRepo.FindBySessionID(ctx, sessionCartID)
	if err != nil {
		return ErrCartNotFound
	}

	guest, err := s.guestRepo.FindByEmail(ctx, address.GuestEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		guest = &model.GuestUser{
			Email:   address.GuestEmail,
			Name:    address.FullName,
			Address: &address,
		}
		if err := s.guestRepo.Create(ctx, guest); err != nil {
			return fmt.Errorf("create guest user: %w", err)
		}
	} else {
		err = s.guestRepo.Updates(ctx, guest.ID,
			&model.GuestUser{Address: &address, Name: address.FullName},
			[]string{"address", "name"})
		if err != nil {
			return fmt.Errorf("update guest user: %w", err)
		}
	}

	return s.cartRepo.AssignGuest(ctx, cart.ID, guest.ID)
}

func (s *userService) UpdateGuestPaymentMethod(ctx context.Context, sessionCartID, method string) error {
	if !slices.Contains(s.store.PaymentMethods, method) {
		return fmt.Errorf("%w: %q", ErrInvalidPayMethod, method)
	}

	cart, err := s.cartRepo.FindBySessionID(ctx, sessionCartID)
	if err != nil {
		return ErrCartNotFound
	}
	if cart.GuestID == nil {
		return ErrUserNotFound
	}

	return s.guestRepo.Updates(ctx, *cart.GuestID, &model.GuestUser{PaymentMethod: method}, []string{"payment_method"})
}

func (s *userService) CheckoutInfo(ctx context.Context, userID, sessionCartID string) (*dto.CheckoutInfo, error) {
	if userID != "" {
		user, err := s.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		return &dto.CheckoutInfo{
			PaymentMethod: user.PaymentMethod,
			Address:       user.Address,
			IsSignedIn:    true,
		}, nil
	}

	cart, err := s.cartRepo.FindBySessionID(ctx, sessionCartID)
	if err != nil || cart.GuestID == nil {
		return &dto.CheckoutInfo{}, nil
	}

	guest, err := s.guestRepo.FindByID(ctx, *cart.GuestID)
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutInfo{
		PaymentMethod: guest.PaymentMethod,
		Address:       guest.Address,
		IsSignedIn:    false,
	}, nil
}
