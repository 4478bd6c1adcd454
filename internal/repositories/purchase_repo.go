package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"livemart/internal/models"
)

// PurchaseRepository defines the interface for wholesale purchase records.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByRetailerID(ctx context.Context, retailerID string) ([]models.Purchase, error)
	GetByWholesalerID(ctx context.Context, wholesalerID string) ([]models.Purchase, error)
}

// GORMPurchaseRepository is a GORM implementation of PurchaseRepository.
type GORMPurchaseRepository struct {
	db *gorm.DB
}

// NewGORMPurchaseRepository creates a new instance of GORMPurchaseRepository.
func NewGORMPurchaseRepository(db *gorm.DB) *GORMPurchaseRepository {
	return &GORMPurchaseRepository{
		db: db,
	}
}

// Create records a purchase.
func (r *GORMPurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return classify(err, "failed to create purchase for order %s", purchase.OrderID)
	}
	return nil
}

// GetByRetailerID retrieves purchases made by a retailer.
func (r *GORMPurchaseRepository) GetByRetailerID(ctx context.Context, retailerID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).Where("retailer_id = ?", retailerID).Find(&purchases).Error
	if err != nil {
		return nil, classify(err, "failed to get purchases for retailer %s", retailerID)
	}
	return purchases, nil
}

// GetByWholesalerID retrieves purchases fulfilled by a wholesaler. The filter
// runs in the store against the canonical identifier; the legacy
// case-insensitive full scan was a workaround for dirty data, not behavior to
// keep.
func (r *GORMPurchaseRepository) GetByWholesalerID(ctx context.Context, wholesalerID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).Where("wholesaler_id = ?", wholesalerID).Find(&purchases).Error
	if err != nil {
		return nil, classify(err, "failed to get purchases for wholesaler %s", wholesalerID)
	}
	return purchases, nil
}
