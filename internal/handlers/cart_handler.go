package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"livemart/internal/services"
	"livemart/pkg/apperrors"
)

// CartHandler exposes the per-user cart endpoints.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes on the given router.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cart/:user_id", h.GetCart)
	router.Post("/cart/:user_id", h.AddItem)
	router.Put("/cart/:user_id/:product_id", h.UpdateItem)
	router.Delete("/cart/:user_id/:product_id", h.RemoveItem)
	router.Delete("/cart/:user_id", h.ClearCart)
}

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// GetCart returns the user's cart, empty if none exists yet.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	cart, err := h.cartService.GetCart(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// AddItem adds a product to the cart, merging quantities for repeats.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.CodeBadRequest, err, "cannot parse request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	cart, err := h.cartService.AddItem(c.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// UpdateItem sets the quantity of a cart line from the query string.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	quantity := c.QueryInt("quantity", -1)
	if quantity <= 0 {
		return respondError(c, apperrors.New(apperrors.CodeBadRequest, "quantity must be a positive integer"))
	}

	cart, err := h.cartService.UpdateItem(c.Context(), userID, c.Params("product_id"), quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// RemoveItem drops a line from the cart.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	cart, err := h.cartService.RemoveItem(c.Context(), userID, c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// ClearCart empties the user's cart. Clearing an absent cart succeeds.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	if err := h.cartService.ClearCart(c.Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cart cleared"})
}
