package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"livemart/internal/models"
	"livemart/pkg/apperrors"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// The mutex makes the conditional debit atomic, mirroring the guard the GORM
// implementation gets from its single-statement update.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Search returns products matching the filter. SellerRole is not applied
// here; the mock has no view of user accounts.
func (r *MockProductRepository) Search(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(p.Description), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.CategoryID != "" && filter.CategoryID != "all" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.AvailableOnly && p.Stock <= 0 {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		productList = append(productList, p)
		if filter.Limit > 0 && len(productList) >= filter.Limit {
			break
		}
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "product with ID %s not found", id)
	}
	return &product, nil
}

// Upsert adds or replaces a product.
func (r *MockProductRepository) Upsert(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return apperrors.Newf(apperrors.CodeNotFound, "product with ID %s not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.Newf(apperrors.CodeNotFound, "product with ID %s not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}

// CountBySeller counts products owned by a seller.
func (r *MockProductRepository) CountBySeller(_ context.Context, sellerID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.SellerID == sellerID {
			count++
		}
	}
	return count, nil
}

// DebitStock decrements stock only while the guard holds.
func (r *MockProductRepository) DebitStock(_ context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return apperrors.Newf(apperrors.CodeNotFound, "product with ID %s not found", id)
	}
	if product.Stock < qty {
		return apperrors.Wrap(apperrors.CodeInsufficientStock, &apperrors.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}, "conditional stock debit rejected")
	}
	product.Stock -= qty
	r.products[id] = product
	return nil
}

// RestockStock re-credits previously debited units.
func (r *MockProductRepository) RestockStock(_ context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return apperrors.Newf(apperrors.CodeNotFound, "product with ID %s not found for restock", id)
	}
	product.Stock += qty
	r.products[id] = product
	return nil
}
