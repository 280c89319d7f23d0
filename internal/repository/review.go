package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carloszaep/my-prostore/internal/model"
)

type ReviewRepository interface {
	// Upsert creates the user's review of a product or overwrites their
	// previous one; one review per user per product.
	Upsert(ctx context.Context, tx *gorm.DB, review *model.Review) error
	ListByProduct(ctx context.Context, productID string) ([]*model.Review, error)
	// Aggregate computes the average rating and review count for a product.
	Aggregate(ctx context.Context, tx *gorm.DB, productID string) (decimal.Decimal, int, error)
}

type reviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepoImpl{db: db}
}

func (r *reviewRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, review *model.Review) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rating", "title", "description", "is_verified_purchase", "updated_at",
		}),
	}).Create(review).Error
}

func (r *reviewRepoImpl) ListByProduct(ctx context.Context, productID string) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepoImpl) Aggregate(ctx context.Context, tx *gorm.DB, productID string) (decimal.Decimal, int, error) {
	var row struct {
		Avg   decimal.Decimal
		Count int
	}
	err := tx.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}

	return row.Avg.Round(2), row.Count, nil
}
