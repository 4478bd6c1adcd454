package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"livemart/internal/models"
)

// ProductFilter narrows a catalog search. Zero values mean "no constraint".
type ProductFilter struct {
	CategoryID    string
	SellerID      string
	SellerRole    string // restrict to products whose seller holds this role
	Search        string // substring match on name or description
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	AvailableOnly bool
	Limit         int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Search(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Upsert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	CountBySeller(ctx context.Context, sellerID string) (int64, error)

	// DebitStock atomically decrements stock by qty only while the remaining
	// stock covers it. A rejected guard surfaces as InsufficientStock; a
	// missing product as NotFound. This is the write that keeps concurrent
	// checkouts from over-selling.
	DebitStock(ctx context.Context, id string, qty int) error

	// RestockStock adds qty back, used to compensate a partially applied
	// debit and by out-of-scope returns handling.
	RestockStock(ctx context.Context, id string, qty int) error
}
