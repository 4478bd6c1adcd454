package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"livemart/internal/services"
	"livemart/pkg/apperrors"
)

// OrderHandler exposes checkout and order lookup endpoints.
type OrderHandler struct {
	checkoutService *services.CheckoutService
	validate        *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkoutService *services.CheckoutService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the order routes on the given router.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders/:user_id", h.PlaceOrder)
	router.Get("/orders/detail/:order_id", h.GetOrderDetail)
	router.Get("/orders/:user_id", h.ListOrders)
}

type placeOrderRequest struct {
	Items           []services.CheckoutItem `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string                  `json:"delivery_address" validate:"required"`
	PaymentMethod   string                  `json:"payment_method"`
}

// PlaceOrder runs the checkout workflow. A partially fulfillable order is
// still returned in the error body: it exists durably even though its stock
// could not be debited in full.
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.CodeBadRequest, err, "cannot parse request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	order, err := h.checkoutService.PlaceOrder(c.Context(), userID, services.CheckoutRequest{
		Items:           req.Items,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		var partial *apperrors.PartialFulfillmentError
		if errors.As(err, &partial) && order != nil {
			return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
				"message": "order could not be fulfilled in full",
				"error":   err.Error(),
				"code":    apperrors.CodePartialFulfillment,
				"order":   order,
			})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// ListOrders returns a user's orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	orders, err := h.checkoutService.GetOrdersForUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// GetOrderDetail returns a single order by its ID.
func (h *OrderHandler) GetOrderDetail(c *fiber.Ctx) error {
	order, err := h.checkoutService.GetOrderByID(c.Context(), c.Params("order_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}
