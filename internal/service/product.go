package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

const (
	latestProductsLimit   = 8
	featuredProductsLimit = 4
)

var ErrProductNotFound = errors.New("product not found")

type ProductService interface {
	Latest(ctx context.Context) ([]*model.Product, error)
	Featured(ctx context.Context) ([]*model.Product, error)
	BySlug(ctx context.Context, slug string) (*model.Product, error)
	ByID(ctx context.Context, id string) (*model.Product, error)
	SizesByName(ctx context.Context, name string) ([]repository.SizeVariant, error)
	Categories(ctx context.Context) ([]repository.CategoryCount, error)
	Search(ctx context.Context, filter repository.ProductFilter) (*dto.Paged[*model.Product], error)

	Create(ctx context.Context, req dto.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id string, req dto.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	productRepo repository.ProductRepository
	pageSize    int
}

func NewProductService(productRepo repository.ProductRepository, pageSize int) ProductService {
	return &productService{
		productRepo: productRepo,
		pageSize:    pageSize,
	}
}

func (s *productService) Latest(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.Latest(ctx, latestProductsLimit)
}

func (s *productService) Featured(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.Featured(ctx, featuredProductsLimit)
}

func (s *productService) BySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *productService) ByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *productService) SizesByName(ctx context.Context, name string) ([]repository.SizeVariant, error) {
	return s.productRepo.SizesByName(ctx, name)
}

func (s *productService) Categories(ctx context.Context) ([]repository.CategoryCount, error) {
	return s.productRepo.Categories(ctx)
}

func (s *productService) Search(ctx context.Context, filter repository.ProductFilter) (*dto.Paged[*model.Product], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = s.pageSize
	}

	products, count, err := s.productRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.Paged[*model.Product]{
		Data:       products,
		TotalPages: totalPages(count, filter.Limit),
	}, nil
}

func (s *productService) Create(ctx context.Context, req dto.ProductRequest) (*model.Product, error) {
	product := &model.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Category:    req.Category,
		Brand:       req.Brand,
		Description: req.Description,
		Images:      req.Images,
		Price:       req.Price,
		Stock:       req.Stock,
		IsFeatured:  req.IsFeatured,
		Banner:      req.Banner,
		Size:        req.Size,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) Update(ctx context.Context, id string, req dto.ProductRequest) (*model.Product, error) {
	product, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Slug = req.Slug
	product.Category = req.Category
	product.Brand = req.Brand
	product.Description = req.Description
	product.Images = req.Images
	product.Price = req.Price
	product.Stock = req.Stock
	product.IsFeatured = req.IsFeatured
	product.Banner = req.Banner
	product.Size = req.Size

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if _, err := s.ByID(ctx, id); err != nil {
		return err
	}

	return s.productRepo.Delete(ctx, id)
}

func totalPages(count int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	pages := count / int64(limit)
	if count%int64(limit) != 0 {
		pages++
	}
	return pages
}
