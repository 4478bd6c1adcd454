package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and caller retry decisions.
type Code string

const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeInsufficientStock  Code = "INSUFFICIENT_STOCK"
	CodePartialFulfillment Code = "PARTIAL_FULFILLMENT"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeInternal           Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	CodeBadRequest:         http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeNotFound:           http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeInsufficientStock:  http.StatusBadRequest,
	CodePartialFulfillment: http.StatusConflict,
	CodeUnavailable:        http.StatusServiceUnavailable,
	CodeInternal:           http.StatusInternalServerError,
}

var retryableByCode = map[Code]bool{
	CodeUnavailable: true,
	CodeInternal:    true,
}

// Error is a classified error. It wraps an optional cause so callers can use
// errors.Is / errors.As against the underlying failure.
type Error struct {
	code    Code
	message string
	cause   error
}

// New creates a classified error with the given message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error. A nil cause behaves like New.
func Wrap(code Code, cause error, message string) *Error {
	return &Error{code: code, message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the classification of this error.
func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

// Message returns the classified message without the cause chain.
func (e *Error) Message() string { return e.message }

// CodeOf returns the code of the outermost classified error in the chain,
// or CodeInternal when the error was never classified.
func CodeOf(err error) Code {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code()
	}
	return CodeInternal
}

// HTTPStatus maps an error to the response status for its code.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether the caller may retry the request as-is.
func Retryable(err error) bool {
	return retryableByCode[CodeOf(err)]
}

// IsCode reports whether the chain carries a classified error with this code.
func IsCode(err error, code Code) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if typed, ok := e.(*Error); ok && typed.Code() == code {
			return true
		}
	}
	return false
}

// InsufficientStockError names the product that cannot cover a requested
// quantity. It is carried as the cause of a CodeInsufficientStock error, and
// inside a PartialFulfillmentError when the shortage is detected at debit time.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested %d, available %d)",
		e.ProductName, e.Requested, e.Available)
}

// PartialFulfillmentError reports that an order was durably persisted but its
// inventory debit did not fully apply. The order referenced here exists and
// must not be hidden from the caller.
type PartialFulfillmentError struct {
	OrderID string
	Cause   error
}

func (e *PartialFulfillmentError) Error() string {
	return fmt.Sprintf("order %s persisted but fulfillment incomplete: %v", e.OrderID, e.Cause)
}

func (e *PartialFulfillmentError) Unwrap() error { return e.Cause }
