package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
	apperrors "github.com/spec-kit/identity-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Class domain.PrincipalClass
	Staff *domain.StaffIdentity
	Youth *domain.YouthIdentity
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	staff  repository.StaffRepository
	youth  repository.YouthRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, staff repository.StaffRepository, youth repository.YouthRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, staff: staff, youth: youth}
}

// Handle enforces authentication for protected routes. The identity is
// re-fetched so a deactivated account loses access even while holding
// an unexpired token.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{Class: claims.UserType}

	switch claims.UserType {
	case domain.PrincipalStaff:
		staff, err := m.staff.GetByID(c.Context(), claims.PrincipalID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return apperrors.NewUnauthorized("staff not found")
			}
			return apperrors.MapError(err)
		}
		if !staff.IsActive {
			return apperrors.NewForbidden("account inactive")
		}
		principal.Staff = staff
	case domain.PrincipalYouth:
		youth, err := m.youth.GetByID(c.Context(), claims.PrincipalID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return apperrors.NewUnauthorized("youth not found")
			}
			return apperrors.MapError(err)
		}
		if !youth.IsActive {
			return apperrors.NewForbidden("account inactive")
		}
		principal.Youth = youth
	default:
		return apperrors.NewUnauthorized("unknown principal class")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// RequireStaffRole ensures the staff principal holds one of the
// allowed roles.
func RequireStaffRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Class != domain.PrincipalStaff || principal.Staff == nil {
			return apperrors.NewForbidden("staff role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Staff.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
