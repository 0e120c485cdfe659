package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/domain"
)

func TestIssueAndParseStaffToken(t *testing.T) {
	tm := auth.NewTokenManager("secret", 24)

	role := domain.StaffRoleAdmin
	cred, err := tm.Issue("AD200", "Alex Doe", "alex@example.org", &role, domain.PrincipalStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.PrincipalStaff, cred.Principal)
	assert.Equal(t, 24*time.Hour, cred.ExpiresAt.Sub(cred.IssuedAt))

	claims, err := tm.ParseToken(cred.Token)
	require.NoError(t, err)
	assert.Equal(t, "AD200", claims.PrincipalID)
	assert.Equal(t, "AD200", claims.Subject)
	assert.Equal(t, "Alex Doe", claims.FullName)
	assert.Equal(t, "alex@example.org", claims.Email)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.StaffRoleAdmin, *claims.Role)
	assert.Equal(t, domain.PrincipalStaff, claims.UserType)
	assert.NotEmpty(t, claims.ID)
}

func TestIssueYouthTokenOmitsRole(t *testing.T) {
	tm := auth.NewTokenManager("secret", 24)

	cred, err := tm.Issue("YT999", "Robin Hale", "robin@example.org", nil, domain.PrincipalYouth)
	require.NoError(t, err)

	claims, err := tm.ParseToken(cred.Token)
	require.NoError(t, err)
	assert.Nil(t, claims.Role)
	assert.Equal(t, domain.PrincipalYouth, claims.UserType)
}

func TestDefaultTTL(t *testing.T) {
	tm := auth.NewTokenManager("secret", 0)
	assert.Equal(t, 24*time.Hour, tm.TTL())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tm := auth.NewTokenManager("secret", 1)
	other := auth.NewTokenManager("different", 1)

	cred, err := tm.Issue("YT999", "Robin Hale", "robin@example.org", nil, domain.PrincipalYouth)
	require.NoError(t, err)

	_, err = other.ParseToken(cred.Token)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager("secret", 1)
	_, err := tm.ParseToken("not.a.token")
	require.Error(t, err)
}
