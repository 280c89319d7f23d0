package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type OrderService interface {
	// GetByID returns the order when the requester owns it or is an admin.
	GetByID(ctx context.Context, orderID, requesterID, requesterRole string) (*model.Order, error)
	// MyOrders lists the user's paid orders, newest first.
	MyOrders(ctx context.Context, userID string, page int) (*dto.Paged[*model.Order], error)
	// FindGuestOrder looks an order up by id plus the guest email used at
	// checkout, for buyers without an account.
	FindGuestOrder(ctx context.Context, orderID, email string) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	guestRepo repository.GuestUserRepository
	pageSize  int
}

func NewOrderService(orderRepo repository.OrderRepository, guestRepo repository.GuestUserRepository, pageSize int) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		guestRepo: guestRepo,
		pageSize:  pageSize,
	}
}

func (s *orderService) GetByID(ctx context.Context, orderID, requesterID, requesterRole string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if requesterRole == model.RoleAdmin {
		return order, nil
	}
	if order.UserID != nil && *order.UserID == requesterID {
		return order, nil
	}

	return nil, ErrNotAuthorized
}

func (s *orderService) MyOrders(ctx context.Context, userID string, page int) (*dto.Paged[*model.Order], error) {
	if page < 1 {
		page = 1
	}

	orders, count, err := s.orderRepo.ListByUser(ctx, userID, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	return &dto.Paged[*model.Order]{
		Data:       orders,
		TotalPages: totalPages(count, s.pageSize),
	}, nil
}

func (s *orderService) FindGuestOrder(ctx context.Context, orderID, email string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if order.GuestID == nil {
		return nil, ErrOrderNotFound
	}
	guest, err := s.guestRepo.FindByID(ctx, *order.GuestID)
	if err != nil || !strings.EqualFold(guest.Email, email) {
		return nil, ErrOrderNotFound
	}

	return order, nil
}
