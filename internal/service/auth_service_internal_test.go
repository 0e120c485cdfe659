package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

type failingIssuer struct{}

func (failingIssuer) Issue(string, string, string, *domain.StaffRole, domain.PrincipalClass) (domain.Credential, error) {
	return domain.Credential{}, domain.ErrSigningFailure
}

type staticStaffRepo struct {
	repository.StaffRepository
	staff *domain.StaffIdentity
}

func (r staticStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffIdentity, error) {
	if r.staff != nil && r.staff.ID == id {
		copied := *r.staff
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r staticStaffRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

type staticYouthRepo struct {
	repository.YouthRepository
	youth *domain.YouthIdentity
}

func (r staticYouthRepo) GetByID(_ context.Context, id string) (*domain.YouthIdentity, error) {
	if r.youth != nil && r.youth.ID == id {
		copied := *r.youth
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r staticYouthRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

type recordCapture struct {
	mu      sync.Mutex
	records []domain.AttemptRecord
}

func (c *recordCapture) Record(attempt domain.AttemptRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, attempt)
}

func (c *recordCapture) List() []domain.AttemptRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.AttemptRecord{}, c.records...)
}

func TestAuthenticateStaffSigningFailureIsAudited(t *testing.T) {
	rec := &recordCapture{}
	svc := &AuthService{
		staff: staticStaffRepo{staff: &domain.StaffIdentity{
			ID: "SC001", FullName: "Root Admin", Email: "root@example.org",
			Role: domain.StaffRoleSuperadmin, IsActive: true,
		}},
		issuer:   failingIssuer{},
		recorder: rec,
		logger:   zap.NewNop(),
	}

	_, _, err := svc.AuthenticateStaff(context.Background(), "sc001", domain.RequestContext{})
	require.ErrorIs(t, err, domain.ErrSigningFailure)

	records := rec.List()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Equal(t, "SC001", records[0].UserID)
	require.NotNil(t, records[0].ErrorMessage)
	assert.Equal(t, reasonSigningFailure, *records[0].ErrorMessage)
}

func TestAuthenticateYouthSigningFailureIsAudited(t *testing.T) {
	rec := &recordCapture{}
	svc := &AuthService{
		youth: staticYouthRepo{youth: &domain.YouthIdentity{
			ID: "YT999", FullName: "Robin Hale", Email: "robin@example.org",
			ProgramType: "explorers", IsActive: true,
		}},
		issuer:   failingIssuer{},
		recorder: rec,
		logger:   zap.NewNop(),
	}

	_, _, err := svc.AuthenticateYouth(context.Background(), "yt999", domain.RequestContext{})
	require.ErrorIs(t, err, domain.ErrSigningFailure)

	records := rec.List()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	require.NotNil(t, records[0].ErrorMessage)
	assert.Equal(t, reasonSigningFailure, *records[0].ErrorMessage)
}
