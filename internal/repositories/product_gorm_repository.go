package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"livemart/internal/models"
	"livemart/pkg/apperrors"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Search retrieves products matching the filter.
func (r *GORMProductRepository) Search(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.SellerID != "" {
		q = q.Where("seller_id = ?", filter.SellerID)
	}
	if filter.SellerRole != "" {
		q = q.Where("seller_id IN (?)",
			r.db.Model(&models.User{}).Select("id").Where("role = ?", filter.SellerRole))
	}
	if filter.CategoryID != "" && filter.CategoryID != "all" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.AvailableOnly {
		q = q.Where("stock > 0")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, classify(err, "failed to search products")
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, classify(err, "product with ID %s not found", id)
	}
	return &product, nil
}

// Upsert creates the product, or replaces its stored fields when the ID
// already exists.
func (r *GORMProductRepository) Upsert(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(product).Error
	if err != nil {
		return classify(err, "failed to upsert product %s", product.ID)
	}
	return nil
}

// Update saves all fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Save(product)
	if res.Error != nil {
		return classify(res.Error, "failed to update product %s", product.ID)
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "product with ID %s not found for update", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return classify(res.Error, "failed to delete product %s", id)
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "product with ID %s not found for deletion", id)
	}
	return nil
}

// CountBySeller counts catalog entries owned by a seller.
func (r *GORMProductRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("seller_id = ?", sellerID).
		Count(&count).Error
	if err != nil {
		return 0, classify(err, "failed to count products for seller %s", sellerID)
	}
	return count, nil
}

// DebitStock applies the filter-guarded decrement. The guard and the
// decrement execute as one statement, so two concurrent debits can never both
// consume the same units: whichever lands second sees no matching row.
func (r *GORMProductRepository) DebitStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return classify(res.Error, "failed to debit stock for product %s", id)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// No row matched: either the product vanished or the guard rejected.
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return apperrors.Wrap(apperrors.CodeInsufficientStock, &apperrors.InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Requested:   qty,
		Available:   product.Stock,
	}, "conditional stock debit rejected")
}

// RestockStock re-credits previously debited units.
func (r *GORMProductRepository) RestockStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return classify(res.Error, "failed to restock product %s", id)
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "product with ID %s not found for restock", id)
	}
	return nil
}
