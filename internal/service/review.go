package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type ReviewService interface {
	// CreateOrUpdate stores the user's review. Only buyers with a delivered
	// order containing the product may review it; the product's rating
	// aggregate is recomputed in the same transaction.
	CreateOrUpdate(ctx context.Context, userID string, req dto.ReviewRequest) (*model.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*model.Review, error)
}

type reviewService struct {
	db          *gorm.DB
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewReviewService(
	db *gorm.DB,
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) ReviewService {
	return &reviewService{
		db:          db,
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) CreateOrUpdate(ctx context.Context, userID string, req dto.ReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, ErrProductNotFound
	}

	bought, err := s.orderRepo.HasDeliveredProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !bought {
		return nil, ErrReviewNotAllowed
	}

	review := &model.Review{
		UserID:             userID,
		ProductID:          req.ProductID,
		Rating:             req.Rating,
		Title:              req.Title,
		Description:        req.Description,
		IsVerifiedPurchase: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.Upsert(ctx, tx, review); err != nil {
			return fmt.Errorf("upsert review: %w", err)
		}

		rating, numReviews, err := s.reviewRepo.Aggregate(ctx, tx, req.ProductID)
		if err != nil {
			return fmt.Errorf("aggregate reviews: %w", err)
		}

		return s.productRepo.SetRating(ctx, tx, req.ProductID, rating, numReviews)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) ListByProduct(ctx context.Context, productID string) ([]*model.Review, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}
