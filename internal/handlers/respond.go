package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"livemart/pkg/apperrors"
)

// respondError translates a service error into the HTTP error contract. Every
// handler funnels failures through here so the status mapping lives in one
// place.
func respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)

	message := "request failed"
	var typed *apperrors.Error
	if errors.As(err, &typed) {
		message = typed.Message()
	}

	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
		"code":    apperrors.CodeOf(err),
	}
	if apperrors.Retryable(err) {
		body["retryable"] = true
	}
	return c.Status(status).JSON(body)
}

// respondValidationError formats validator failures field by field.
func respondValidationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return respondError(c, apperrors.Wrap(apperrors.CodeBadRequest, err, "validation failed"))
	}

	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"code":    apperrors.CodeBadRequest,
		"errors":  errorMessages,
	})
}

// requireSelf rejects a request whose bearer token identifies a different
// user than the path addresses. Routes without auth context pass through.
func requireSelf(c *fiber.Ctx, userID string) error {
	acting, ok := c.Locals("user_id").(string)
	if ok && acting != "" && acting != userID {
		return apperrors.New(apperrors.CodeForbidden, "token does not match requested user")
	}
	return nil
}
