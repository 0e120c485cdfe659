package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/domain"
)

// User-facing login messages. Not-found stays indistinguishable from
// other lookup misses; the audit trail keeps the precise reason.
const (
	msgStaffFormat   = "Invalid Staff ID format. Expected a two-letter prefix followed by digits, e.g. SC001."
	msgStaffInvalid  = "Invalid Staff ID"
	msgYouthFormat   = "Invalid Youth ID format."
	msgYouthInvalid  = "Invalid Youth ID"
	msgInactive      = "Account is inactive. Please contact your administrator."
	msgInternalError = "Authentication failed. Please try again later."
)

// Authenticator is the slice of the auth service the handler needs.
type Authenticator interface {
	AuthenticateStaff(ctx context.Context, rawID string, reqCtx domain.RequestContext) (*domain.StaffIdentity, domain.Credential, error)
	AuthenticateYouth(ctx context.Context, rawID string, reqCtx domain.RequestContext) (*domain.YouthIdentity, domain.Credential, error)
}

// AuthHandler exposes the two authentication entry points.
type AuthHandler struct {
	authService Authenticator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// StaffLogin handles POST /auth/staff/login.
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return loginFailure(c, http.StatusBadRequest, msgStaffFormat)
	}

	staff, cred, err := h.authService.AuthenticateStaff(c.UserContext(), req.StaffID, requestContext(c))
	if err != nil {
		return staffLoginError(c, err)
	}

	return c.JSON(dto.LoginSuccess{
		Success: true,
		Token:   cred.Token,
		User: dto.StaffUser{
			StaffID:  staff.ID,
			FullName: staff.FullName,
			Email:    staff.Email,
			Role:     string(staff.Role),
		},
		ExpiresAt: cred.ExpiresAt,
	})
}

// YouthLogin handles POST /auth/youth/login.
func (h *AuthHandler) YouthLogin(c *fiber.Ctx) error {
	var req dto.YouthLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return loginFailure(c, http.StatusBadRequest, msgYouthFormat)
	}

	youth, cred, err := h.authService.AuthenticateYouth(c.UserContext(), req.YouthID, requestContext(c))
	if err != nil {
		return youthLoginError(c, err)
	}

	return c.JSON(dto.LoginSuccess{
		Success: true,
		Token:   cred.Token,
		User: dto.YouthUser{
			YouthID:     youth.ID,
			FullName:    youth.FullName,
			Email:       youth.Email,
			ProgramType: youth.ProgramType,
		},
		ExpiresAt: cred.ExpiresAt,
	})
}

func staffLoginError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		return loginFailure(c, http.StatusBadRequest, msgStaffFormat)
	case errors.Is(err, domain.ErrNotFound):
		return loginFailure(c, http.StatusUnauthorized, msgStaffInvalid)
	case errors.Is(err, domain.ErrInactive):
		return loginFailure(c, http.StatusForbidden, msgInactive)
	default:
		return loginFailure(c, http.StatusInternalServerError, msgInternalError)
	}
}

func youthLoginError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		return loginFailure(c, http.StatusBadRequest, msgYouthFormat)
	case errors.Is(err, domain.ErrNotFound):
		return loginFailure(c, http.StatusUnauthorized, msgYouthInvalid)
	case errors.Is(err, domain.ErrInactive):
		return loginFailure(c, http.StatusForbidden, msgInactive)
	default:
		return loginFailure(c, http.StatusInternalServerError, msgInternalError)
	}
}

func loginFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.LoginFailure{Success: false, Message: message})
}

// requestContext extracts caller network metadata for the audit trail.
func requestContext(c *fiber.Ctx) domain.RequestContext {
	return domain.RequestContext{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
