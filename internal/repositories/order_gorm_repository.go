package repositories

import (
	"context"

	"gorm.io/gorm"

	"livemart/internal/models"
	"livemart/pkg/apperrors"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create durably inserts the order and its line items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return classify(err, "failed to create order %s", order.ID)
	}
	return nil
}

// GetByID retrieves a single order with its line items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, classify(err, "order with ID %s not found", id)
	}
	return &order, nil
}

// GetByUserID retrieves all orders placed by a user, newest first.
func (r *GORMOrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, classify(err, "failed to get orders for user %s", userID)
	}
	return orders, nil
}

// GetBySellerID retrieves orders containing at least one line item sold by
// the given seller, for the dashboard aggregations.
func (r *GORMOrderRepository) GetBySellerID(ctx context.Context, sellerID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("id IN (?)", r.db.Model(&models.OrderItem{}).
			Select("order_id").
			Where("seller_id = ?", sellerID)).
		Find(&orders).Error
	if err != nil {
		return nil, classify(err, "failed to get orders for seller %s", sellerID)
	}
	return orders, nil
}

// UpdateStatus transitions the order status.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("order_status", status)
	if res.Error != nil {
		return classify(res.Error, "failed to update status of order %s", id)
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "order with ID %s not found for status update", id)
	}
	return nil
}

var _ OrderRepository = (*GORMOrderRepository)(nil)
