package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/domain"
)

// TokenManager issues and validates signed bearer credentials. The
// signature is symmetric (HS256) over a process-wide secret; tokens are
// signed but not encrypted, so claims carry only public-facing fields.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager. The secret must be non-empty; that
// is enforced at process startup, not here.
func NewTokenManager(secret string, ttlHours int) *TokenManager {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlHours) * time.Hour}
}

// Claims describes the JWT payload for both principal classes. Role is
// present only for staff tokens.
type Claims struct {
	PrincipalID string                `json:"principal_id"`
	FullName    string                `json:"full_name"`
	Email       string                `json:"email"`
	Role        *domain.StaffRole     `json:"role,omitempty"`
	UserType    domain.PrincipalClass `json:"user_type"`
	jwt.RegisteredClaims
}

// Issue builds and signs a credential for the principal.
func (tm *TokenManager) Issue(principalID, fullName, email string, role *domain.StaffRole, class domain.PrincipalClass) (domain.Credential, error) {
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		PrincipalID: principalID,
		FullName:    fullName,
		Email:       email,
		Role:        role,
		UserType:    class,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%w: %v", domain.ErrSigningFailure, err)
	}
	return domain.Credential{
		Token:     signed,
		Principal: class,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// TTL exposes the configured credential lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// ParseToken validates a bearer token and returns its claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
