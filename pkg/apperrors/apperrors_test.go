package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusByCode(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInsufficientStock, http.StatusBadRequest},
		{CodePartialFulfillment, http.StatusConflict},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(New(tt.code, "boom")), "code %s", tt.code)
	}
}

func TestCodeOfUnclassifiedDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(CodeUnavailable, cause, "store query failed")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeUnavailable, CodeOf(err))
	assert.Contains(t, err.Error(), "store query failed")
	assert.Contains(t, err.Error(), "disk on fire")
	assert.True(t, Retryable(err))
	assert.False(t, Retryable(New(CodeBadRequest, "nope")))
}

func TestCodeOfReturnsOutermostClassification(t *testing.T) {
	inner := New(CodeNotFound, "product missing")
	outer := Wrap(CodeUnavailable, inner, "retried and gave up")

	assert.Equal(t, CodeUnavailable, CodeOf(outer))
	assert.True(t, IsCode(outer, CodeNotFound))
	assert.True(t, IsCode(outer, CodeUnavailable))
	assert.False(t, IsCode(outer, CodeConflict))
}

func TestInsufficientStockErrorSurvivesWrapping(t *testing.T) {
	cause := &InsufficientStockError{
		ProductID:   "p1",
		ProductName: "Apple (WH)",
		Requested:   7,
		Available:   5,
	}
	err := Wrap(CodeInsufficientStock, cause, "stock validation failed")

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Apple (WH)", stockErr.ProductName)
	assert.Contains(t, err.Error(), "requested 7, available 5")
}

func TestPartialFulfillmentWrapsDebitCause(t *testing.T) {
	stock := &InsufficientStockError{ProductID: "p1", ProductName: "Milk (WH)", Requested: 3, Available: 2}
	partial := &PartialFulfillmentError{OrderID: "ord-1", Cause: stock}
	err := Wrap(CodePartialFulfillment, partial, "inventory debit rejected")

	assert.Equal(t, CodePartialFulfillment, CodeOf(err))

	var pf *PartialFulfillmentError
	assert.True(t, errors.As(err, &pf))
	assert.Equal(t, "ord-1", pf.OrderID)

	// The insufficient-stock cause stays reachable through the chain.
	var stockErr *InsufficientStockError
	assert.True(t, errors.As(err, &stockErr))
	assert.Contains(t, fmt.Sprint(err), "ord-1")
}
