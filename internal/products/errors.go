package products

import (
	"errors"
	"net/http"
)

// Domain errors for product operations.
var (
	ErrNotFound           = errors.New("product not found")
	ErrInvalidID          = errors.New("invalid product id")
	ErrInvalidFeedback    = errors.New("invalid feedback body")
	ErrCorrectionRequired = errors.New("correction text is required")
	ErrFileTooLarge       = errors.New("file exceeds maximum upload size")
	ErrInvalidFile        = errors.New("invalid csv file")
	ErrEmptyImport        = errors.New("csv contains no products")
)

// MapHTTPStatus maps product domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidFeedback),
		errors.Is(err, ErrCorrectionRequired),
		errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrEmptyImport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
