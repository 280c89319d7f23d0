package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

const staleUnpaidAge = 24 * time.Hour

type OrderSummary struct {
	OrdersCount   int64                   `json:"ordersCount"`
	ProductsCount int64                   `json:"productsCount"`
	UsersCount    int64                   `json:"usersCount"`
	TotalSales    decimal.Decimal         `json:"totalSales"`
	SalesData     []repository.SalesEntry `json:"salesData"`
	LatestSales   []*model.Order          `json:"latestSales"`
}

type AdminService interface {
	Summary(ctx context.Context) (*OrderSummary, error)
	ListOrders(ctx context.Context, userQuery string, page int) (*dto.Paged[*model.Order], error)
	DeleteOrder(ctx context.Context, orderID string) error
	// DeleteUnpaidOrders removes unpaid orders older than 24h; it errors
	// when none match so the admin sees there was nothing to clean.
	DeleteUnpaidOrders(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context, query string, page int) (*dto.Paged[*model.User], error)
	EditUser(ctx context.Context, userID, name, role string) error
	DeleteUser(ctx context.Context, userID string) error
}

type adminService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	pageSize    int
}

func NewAdminService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	pageSize int,
) AdminService {
	return &adminService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		pageSize:    pageSize,
	}
}

func (s *adminService) Summary(ctx context.Context) (*OrderSummary, error) {
	ordersCount, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	productsCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	usersCount, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalSales, err := s.orderRepo.TotalSales(ctx)
	if err != nil {
		return nil, err
	}
	salesData, err := s.orderRepo.MonthlySales(ctx)
	if err != nil {
		return nil, err
	}
	latestSales, err := s.orderRepo.Latest(ctx, 6)
	if err != nil {
		return nil, err
	}

	return &OrderSummary{
		OrdersCount:   ordersCount,
		ProductsCount: productsCount,
		UsersCount:    usersCount,
		TotalSales:    totalSales,
		SalesData:     salesData,
		LatestSales:   latestSales,
	}, nil
}

func (s *adminService) ListOrders(ctx context.Context, userQuery string, page int) (*dto.Paged[*model.Order], error) {
	if page < 1 {
		page = 1
	}

	orders, count, err := s.orderRepo.ListAll(ctx, userQuery, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	return &dto.Paged[*model.Order]{
		Data:       orders,
		TotalPages: totalPages(count, s.pageSize),
	}, nil
}

func (s *adminService) DeleteOrder(ctx context.Context, orderID string) error {
	return s.orderRepo.Delete(ctx, orderID)
}

func (s *adminService) DeleteUnpaidOrders(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-staleUnpaidAge)

	deleted, err := s.orderRepo.DeleteUnpaidBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrNoUnpaidOrders
	}

	return deleted, nil
}

func (s *adminService) ListUsers(ctx context.Context, query string, page int) (*dto.Paged[*model.User], error) {
	if page < 1 {
		page = 1
	}

	users, count, err := s.userRepo.List(ctx, query, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	return &dto.Paged[*model.User]{
		Data:       users,
		TotalPages: totalPages(count, s.pageSize),
	}, nil
}

func (s *adminService) EditUser(ctx context.Context, userID, name, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return errors.New("invalid role")
	}

	err := s.userRepo.Updates(ctx, userID,
		&model.User{Name: name, Role: role}, []string{"name", "role"})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}

	return err
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}
