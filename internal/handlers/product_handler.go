package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/internal/services"
	"livemart/pkg/apperrors"
)

// ProductHandler exposes the catalog endpoints.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers catalog reads on the public router and catalog
// mutations on the protected one.
func (h *ProductHandler) RegisterRoutes(public, protected fiber.Router) {
	public.Get("/products", h.Search)
	public.Get("/products/retailer/:rid", h.RetailerProducts)
	public.Get("/products/:id", h.GetByID)
	protected.Post("/products", h.Create)
	protected.Put("/products/:id", h.Update)
	protected.Delete("/products/:id", h.Delete)
}

type productRequest struct {
	ID          string          `json:"id" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	CategoryID  string          `json:"category_id"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	SellerID    string          `json:"seller_id"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
}

type productUpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=100"`
	CategoryID  *string          `json:"category_id"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
}

// Search lists catalog products filtered by query parameters. Out-of-stock
// entries are hidden unless available_only=false is passed.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		CategoryID:    c.Query("category_id"),
		SellerID:      c.Query("seller_id"),
		SellerRole:    c.Query("seller_role"),
		Search:        c.Query("search"),
		AvailableOnly: c.QueryBool("available_only", true),
		Limit:         c.QueryInt("limit"),
	}
	if raw := c.Query("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return respondError(c, apperrors.Newf(apperrors.CodeBadRequest, "invalid min_price: %s", raw))
		}
		filter.MinPrice = &price
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return respondError(c, apperrors.Newf(apperrors.CodeBadRequest, "invalid max_price: %s", raw))
		}
		filter.MaxPrice = &price
	}

	products, err := h.productService.SearchProducts(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// RetailerProducts lists in-stock products offered by a specific retailer,
// the consumer-facing storefront view.
func (h *ProductHandler) RetailerProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		SellerID:      c.Params("rid"),
		CategoryID:    c.Query("category_id"),
		Search:        c.Query("search"),
		AvailableOnly: true,
	}
	products, err := h.productService.SearchProducts(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetByID returns a single product.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.productService.GetProductByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.CodeBadRequest, err, "cannot parse request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	product := &models.Product{
		ID:          req.ID,
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		SellerID:    req.SellerID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	created, err := h.productService.CreateProduct(c.Context(), product)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update applies a partial update to a product.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req productUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.CodeBadRequest, err, "cannot parse request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	updated, err := h.productService.UpdateProduct(c.Context(), c.Params("id"), services.ProductUpdate{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// Delete removes a product from the catalog.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}
