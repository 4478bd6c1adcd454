package repositories

import (
	"context"

	"livemart/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// append-only; the only permitted mutation after creation is a status
// transition.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetBySellerID(ctx context.Context, sellerID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}
