package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"livemart/internal/models"
	"livemart/internal/services"
	"livemart/pkg/apperrors"
)

// CategoryHandler exposes the category endpoints.
type CategoryHandler struct {
	categoryService *services.CategoryService
	validate        *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the category list publicly and creation behind
// auth.
func (h *CategoryHandler) RegisterRoutes(public, protected fiber.Router) {
	public.Get("/categories", h.List)
	protected.Post("/categories", h.Create)
}

type categoryRequest struct {
	ID   string `json:"id" validate:"omitempty,uuid"`
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// List returns all categories.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.GetAllCategories(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// Create adds a category.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.CodeBadRequest, err, "cannot parse request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	created, err := h.categoryService.CreateCategory(c.Context(), &models.Category{ID: req.ID, Name: req.Name})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
