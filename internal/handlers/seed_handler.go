package handlers

import (
	"github.com/gofiber/fiber/v2"

	"livemart/internal/services"
)

// SeedHandler exposes the demo-data seeding endpoint.
type SeedHandler struct {
	seedService *services.SeedService
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(seedService *services.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// RegisterRoutes registers the seed route on the given router.
func (h *SeedHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/seed-data", h.Seed)
}

// Seed loads the demo fixtures. Re-running it overwrites the same fixture
// rows, so it is safe to call more than once.
func (h *SeedHandler) Seed(c *fiber.Ctx) error {
	if err := h.seedService.Seed(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "demo data seeded"})
}
