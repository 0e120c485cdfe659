package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError, mapping the
// authentication/provisioning taxonomy onto HTTP statuses.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return NewDomainError("REQUEST_ERROR", fiberErr.Message, fiberErr.Code, nil)
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		details := make(map[string]any, len(validationErrs))
		for field, fieldErr := range validationErrs {
			details[field] = fieldErr.Error()
		}
		return NewDomainError("VALIDATION_FAILED", "validation failed", http.StatusBadRequest, details)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		return NewDomainError("INVALID_FORMAT", "invalid identifier format", http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrNotFound):
		return NewDomainError("UNAUTHORIZED", "identity not found", http.StatusUnauthorized, nil)
	case errors.Is(err, domain.ErrInactive):
		return NewDomainError("FORBIDDEN", "account inactive", http.StatusForbidden, nil)
	case errors.Is(err, domain.ErrHierarchyViolation):
		return NewDomainError("HIERARCHY_VIOLATION", err.Error(), http.StatusForbidden, nil)
	case errors.Is(err, domain.ErrConflict):
		return NewDomainError("CONFLICT", err.Error(), http.StatusConflict, nil)
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrSigningFailure):
		return &DomainError{
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
