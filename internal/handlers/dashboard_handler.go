package handlers

import (
	"github.com/gofiber/fiber/v2"

	"livemart/internal/services"
	"livemart/pkg/apperrors"
)

// DashboardHandler exposes the seller dashboard aggregates.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// RegisterRoutes registers the dashboard routes on the given router.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard/retailer", h.Retailer)
	router.Get("/dashboard/wholesaler", h.Wholesaler)
}

// Retailer aggregates a retailer's catalog size, order count, and revenue.
func (h *DashboardHandler) Retailer(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return respondError(c, apperrors.New(apperrors.CodeBadRequest, "user_id query parameter is required"))
	}
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	stats, err := h.dashboardService.RetailerDashboard(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// Wholesaler aggregates a wholesaler's catalog size and recorded purchases.
func (h *DashboardHandler) Wholesaler(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return respondError(c, apperrors.New(apperrors.CodeBadRequest, "user_id query parameter is required"))
	}
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	stats, err := h.dashboardService.WholesalerDashboard(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
