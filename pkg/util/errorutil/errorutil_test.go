package errorutil_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/domain"
	errorutil "github.com/spec-kit/identity-service/pkg/util/errorutil"
)

func TestToDomainErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"invalid_format", domain.ErrInvalidFormat, "INVALID_FORMAT", http.StatusBadRequest},
		{"not_found", domain.ErrNotFound, "UNAUTHORIZED", http.StatusUnauthorized},
		{"inactive", domain.ErrInactive, "FORBIDDEN", http.StatusForbidden},
		{"hierarchy", domain.ErrHierarchyViolation, "HIERARCHY_VIOLATION", http.StatusForbidden},
		{"conflict", domain.ErrConflict, "CONFLICT", http.StatusConflict},
		{"unavailable", domain.ErrUnavailable, "INTERNAL_ERROR", http.StatusInternalServerError},
		{"signing", domain.ErrSigningFailure, "INTERNAL_ERROR", http.StatusInternalServerError},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorutil.ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
}

func TestToDomainErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("%w: dial tcp refused", domain.ErrUnavailable)
	got := errorutil.ToDomainError(wrapped)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	// The client never sees the underlying storage detail.
	assert.Equal(t, "internal server error", got.Message)
}

func TestToDomainErrorValidationErrors(t *testing.T) {
	errs := validation.Errors{"email": errors.New("must be a valid email address")}
	got := errorutil.ToDomainError(errs)
	assert.Equal(t, "VALIDATION_FAILED", got.Code)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	assert.Contains(t, got.Details, "email")
}

func TestToDomainErrorPassthrough(t *testing.T) {
	original := errorutil.NewDomainError("CUSTOM", "custom", http.StatusTeapot, nil)
	got := errorutil.ToDomainError(original)
	assert.Same(t, original, got)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, errorutil.ToDomainError(nil))
}

func TestToDomainErrorFiberError(t *testing.T) {
	got := errorutil.ToDomainError(fiber.NewError(http.StatusBadRequest, "invalid payload"))
	assert.Equal(t, "REQUEST_ERROR", got.Code)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	assert.Equal(t, "invalid payload", got.Message)
}
