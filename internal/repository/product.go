package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/model"
)

// ProductFilter narrows Search. Zero values mean "no filter".
type ProductFilter struct {
	Query     string
	Category  string
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	RatingMin *decimal.Decimal
	Sort      string // lowest, highest, rating, newest
	Page      int
	Limit     int
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type SizeVariant struct {
	Size *string `json:"size"`
	Slug string  `json:"slug"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindMany(ctx context.Context, ids []string) ([]*model.Product, error)
	// Latest returns the newest products, one entry per product name so
	// size variants collapse to a single card.
	Latest(ctx context.Context, limit int) ([]*model.Product, error)
	Featured(ctx context.Context, limit int) ([]*model.Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]*model.Product, int64, error)
	SizesByName(ctx context.Context, name string) ([]SizeVariant, error)
	Categories(ctx context.Context) ([]CategoryCount, error)
	Count(ctx context.Context) (int64, error)
	// DecrementStock runs in the caller's transaction and fails when stock
	// would go negative.
	DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error
	// SetRating writes the recomputed review aggregate.
	SetRating(ctx context.Context, tx *gorm.DB, productID string, rating decimal.Decimal, numReviews int) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{db: db}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, ids []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Latest(ctx context.Context, limit int) ([]*model.Product, error) {
	sub := r.db.Model(&model.Product{}).Select("MIN(id)").Group("name")

	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Featured(ctx context.Context, limit int) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("is_featured = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Search(ctx context.Context, filter ProductFilter) ([]*model.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Query != "" && filter.Query != "all" {
		db = db.Where("name LIKE ?", "%"+filter.Query+"%")
	}
	if filter.Category != "" && filter.Category != "all" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.PriceMin != nil {
		db = db.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		db = db.Where("price <= ?", *filter.PriceMax)
	}
	if filter.RatingMin != nil {
		db = db.Where("rating >= ?", *filter.RatingMin)
	}

	// collapse size variants before counting so totalPages matches the
	// collapsed listing
	sub := r.db.Model(&model.Product{}).Select("MIN(id)").Group("name")
	db = db.Where("id IN (?)", sub)

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "lowest":
		db = db.Order("price asc")
	case "highest":
		db = db.Order("price desc")
	case "rating":
		db = db.Order("rating desc")
	default:
		db = db.Order("created_at desc")
	}

	var products []*model.Product
	err := db.
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *productRepoImpl) SizesByName(ctx context.Context, name string) ([]SizeVariant, error) {
	var variants []SizeVariant
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("size, slug").
		Where("name LIKE ?", "%"+name+"%").
		Scan(&variants).Error
	if err != nil {
		return nil, err
	}

	return variants, nil
}

func (r *productRepoImpl) Categories(ctx context.Context) ([]CategoryCount, error) {
	var categories []CategoryCount
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *productRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("insufficient stock for product %s", productID)
	}

	return nil
}

func (r *productRepoImpl) SetRating(ctx context.Context, tx *gorm.DB, productID string, rating decimal.Decimal, numReviews int) error {
	return tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":      rating,
			"num_reviews": numReviews,
		}).Error
}
