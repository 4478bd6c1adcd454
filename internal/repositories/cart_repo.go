package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"livemart/internal/models"
)

// CartRepository defines the interface for cart data access. One cart per
// user; all lookups and mutations are keyed by the owning user.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUserID retrieves a user's cart with its items.
func (r *GORMCartRepository) GetByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Preload("Items").First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, classify(err, "cart for user %s not found", userID)
	}
	return &cart, nil
}

// Save persists the cart and its items, replacing previous line items so the
// stored state always matches the given cart exactly.
func (r *GORMCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Cart
		err := tx.First(&existing, "user_id = ?", cart.UserID).Error
		switch {
		case err == nil:
			cart.ID = existing.ID
			if err := tx.Where("cart_id = ?", existing.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			for i := range cart.Items {
				cart.Items[i].ID = 0
				cart.Items[i].CartID = existing.ID
			}
			return tx.Save(cart).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(cart).Error
		default:
			return err
		}
	})
	if err != nil {
		return classify(err, "failed to save cart for user %s", cart.UserID)
	}
	return nil
}

// DeleteByUserID removes the user's cart and its items. Deleting an absent
// cart is not an error; clearing is idempotent.
func (r *GORMCartRepository) DeleteByUserID(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.First(&cart, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&cart).Error
	})
	if err != nil {
		return classify(err, "failed to clear cart for user %s", userID)
	}
	return nil
}
