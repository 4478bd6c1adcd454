package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"livemart/internal/models"
	"livemart/internal/services"
	"livemart/pkg/apperrors"
)

// FeedbackHandler exposes product feedback endpoints.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	validate        *validator.Validate
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers feedback reads publicly and creation behind auth.
func (h *FeedbackHandler) RegisterRoutes(public, protected fiber.Router) {
	public.Get("/feedback/product/:product_id", h.ListForProduct)
	protected.Post("/feedback/:user_id", h.Create)
}

type feedbackRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"omitempty,max=1000"`
}

// Create records a rating and optional comment for a product.
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if err := requireSelf(c, userID); err != nil {
		return respondError(c, err)
	}

	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.CodeBadRequest, err, "cannot parse request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	created, err := h.feedbackService.CreateFeedback(c.Context(), userID, &models.Feedback{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListForProduct returns all feedback left for a product.
func (h *FeedbackHandler) ListForProduct(c *fiber.Ctx) error {
	feedback, err := h.feedbackService.GetProductFeedback(c.Context(), c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feedback)
}
