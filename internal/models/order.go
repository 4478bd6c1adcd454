package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment and order status values. Checkout only ever produces
// pending/placed; later transitions are driven elsewhere.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	OrderStatusPlaced    = "placed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is a denormalized snapshot of a product at order time. Name and
// price are captured when the order is built; later product changes never
// touch a placed order.
type OrderItem struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	OrderID     string          `json:"-" gorm:"index;type:varchar(36)"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	Subtotal    decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	SellerID    string          `json:"seller_id" gorm:"type:varchar(36)"`
}

// Order is the durable outcome of a checkout. Immutable once created except
// for status transitions.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	DeliveryAddress string          `json:"delivery_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	OrderStatus     string          `json:"order_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Purchase records a retailer buying from a wholesaler, denormalized for the
// dashboard aggregations.
type Purchase struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RetailerID  string          `json:"retailer_id" gorm:"index;type:varchar(36)"`
	WholesalerID string         `json:"wholesaler_id" gorm:"index;type:varchar(36)"`
	OrderID     string          `json:"order_id" gorm:"type:varchar(36)"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	CreatedAt   time.Time       `json:"created_at"`
}
