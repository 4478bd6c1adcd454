package services

import (
	"context"

	"github.com/shopspring/decimal"

	"livemart/internal/repositories"
	"livemart/pkg/apperrors"
)

// DashboardStats is the aggregated view returned to seller dashboards.
type DashboardStats struct {
	ProductsCount int64           `json:"products_count"`
	OrdersCount   int64           `json:"orders_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// DashboardService aggregates sales figures for sellers.
type DashboardService struct {
	productRepo  repositories.ProductRepository
	orderRepo    repositories.OrderRepository
	purchaseRepo repositories.PurchaseRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	purchaseRepo repositories.PurchaseRepository,
) *DashboardService {
	return &DashboardService{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		purchaseRepo: purchaseRepo,
	}
}

// RetailerDashboard aggregates a retailer's catalog size, order volume, and
// revenue. Revenue counts only the retailer's own line items inside each
// order; purchases from wholesalers add to the order count.
func (s *DashboardService) RetailerDashboard(ctx context.Context, userID string) (*DashboardStats, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "user_id is required")
	}

	productsCount, err := s.productRepo.CountBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	ordersAsSeller, err := s.orderRepo.GetBySellerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{ProductsCount: productsCount, TotalRevenue: decimal.Zero}
	for _, order := range ordersAsSeller {
		included := false
		for _, item := range order.Items {
			if item.SellerID == userID {
				included = true
				stats.TotalRevenue = stats.TotalRevenue.Add(item.Subtotal)
			}
		}
		if included {
			stats.OrdersCount++
		}
	}

	purchases, err := s.purchaseRepo.GetByRetailerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.OrdersCount += int64(len(purchases))

	return stats, nil
}

// WholesalerDashboard aggregates a wholesaler's catalog size and the wholesale
// purchases fulfilled for retailers.
func (s *DashboardService) WholesalerDashboard(ctx context.Context, userID string) (*DashboardStats, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "user_id is required")
	}

	productsCount, err := s.productRepo.CountBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchaseRepo.GetByWholesalerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		ProductsCount: productsCount,
		OrdersCount:   int64(len(purchases)),
		TotalRevenue:  decimal.Zero,
	}
	for _, purchase := range purchases {
		stats.TotalRevenue = stats.TotalRevenue.Add(purchase.TotalAmount)
	}

	return stats, nil
}
