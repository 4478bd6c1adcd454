package services

import (
	"context"

	"github.com/shopspring/decimal"

	"livemart/internal/models"
	"livemart/internal/repositories"
)

// ProductUpdate carries the fields of a partial product update. Nil means
// "leave unchanged".
type ProductUpdate struct {
	Name        *string
	CategoryID  *string
	Price       *decimal.Decimal
	Stock       *int
	SellerID    *string
	Description *string
	ImageURL    *string
	Rating      *decimal.Decimal
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// SearchProducts retrieves products matching the filter.
func (s *ProductService) SearchProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.Search(ctx, filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a product, generating an ID when absent. Creating with
// an existing ID replaces the stored entry.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.repo.Upsert(ctx, product); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, product.ID)
}

// UpdateProduct applies a partial update to an existing product and returns
// the stored result.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.CategoryID != nil {
		product.CategoryID = *update.CategoryID
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}
	if update.SellerID != nil {
		product.SellerID = *update.SellerID
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}
	if update.Rating != nil {
		product.Rating = *update.Rating
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
