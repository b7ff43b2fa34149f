package contracts

import (
	"errors"
	"strings"
)

var ErrBackendUnavailable = errors.New("backend is not configured")

const (
	ErrorCategoryBackend   = "backend"
	ErrorCategoryEncoding  = "encoding"
	ErrorCategoryTransport = "transport"
)

func normalizeErrorCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case ErrorCategoryEncoding:
		return ErrorCategoryEncoding
	case ErrorCategoryTransport:
		return ErrorCategoryTransport
	default:
		return ErrorCategoryBackend
	}
}

func WrapCategorizedError(category string, err error) error {
	if err == nil {
		return nil
	}
	var existing *CategorizedError
	if errors.As(err, &existing) {
		return &CategorizedError{
			Category: normalizeErrorCategory(existing.Category),
			Err:      existing.Err,
		}
	}
	return &CategorizedError{
		Category: normalizeErrorCategory(category),
		Err:      err,
	}
}

func ErrorCategory(err error) string {
	var classified *CategorizedError
	if errors.As(err, &classified) {
		return normalizeErrorCategory(classified.Category)
	}
	return ErrorCategoryBackend
}
