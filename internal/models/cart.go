package models

import "gorm.io/gorm"

// CartItem is one product+quantity line inside a user's cart.
type CartItem struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	CartID    uint   `json:"-" gorm:"index"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// Cart holds the pending line items of exactly one user. The unique index on
// UserID enforces the one-cart-per-user rule; the cart is created on first add
// and removed on successful checkout or explicit clear.
type Cart struct {
	gorm.Model `json:"-"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}
