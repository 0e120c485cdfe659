package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/audit"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/identifier"
	"github.com/spec-kit/identity-service/internal/observability"
	"github.com/spec-kit/identity-service/internal/repository"
)

// Internal audit reasons. These stay precise for operators even where
// the external response message is deliberately coarse.
const (
	reasonInvalidStaffFormat = "Invalid Staff ID format"
	reasonInvalidYouthFormat = "Invalid Youth ID format"
	reasonNotFound           = "not found"
	reasonInactive           = "account inactive"
	reasonUnavailable        = "identity store unavailable"
	reasonSigningFailure     = "credential signing failure"
)

const lastLoginTimeout = 3 * time.Second

// AuthService is the authentication state machine. Every attempt,
// success or failure, produces exactly one attempt record; side effects
// after the decision point (lastLogin, audit) are best-effort and never
// change the outcome.
// credentialIssuer is the slice of the token manager the service uses.
type credentialIssuer interface {
	Issue(principalID, fullName, email string, role *domain.StaffRole, class domain.PrincipalClass) (domain.Credential, error)
}

type AuthService struct {
	staff    repository.StaffRepository
	youth    repository.YouthRepository
	tokenMgr *auth.TokenManager
	issuer   credentialIssuer
	recorder audit.Recorder
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// AuthDependencies encapsulates collaborator requirements.
type AuthDependencies struct {
	StaffRepo repository.StaffRepository
	YouthRepo repository.YouthRepository
	Recorder  audit.Recorder
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	return &AuthService{
		staff:    deps.StaffRepo,
		youth:    deps.YouthRepo,
		tokenMgr: tokenMgr,
		issuer:   tokenMgr,
		recorder: deps.Recorder,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

// AuthenticateStaff authenticates a staff identifier. Possession of a
// well-formed, existing, active identifier is the entire proof; no
// password or second factor exists in this contract.
func (s *AuthService) AuthenticateStaff(ctx context.Context, rawID string, reqCtx domain.RequestContext) (*domain.StaffIdentity, domain.Credential, error) {
	id := identifier.Normalize(rawID)
	reqCtx = reqCtx.Normalize()

	if err := identifier.Validate(id, domain.PrincipalStaff); err != nil {
		s.recordFailure(id, domain.PrincipalStaff, reqCtx, reasonInvalidStaffFormat, "invalid_format")
		return nil, domain.Credential{}, domain.ErrInvalidFormat
	}

	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Credential{}, s.lookupFailure(id, domain.PrincipalStaff, reqCtx, err)
	}

	if !staff.IsActive {
		s.recordFailure(id, domain.PrincipalStaff, reqCtx, reasonInactive, "inactive")
		return nil, domain.Credential{}, domain.ErrInactive
	}

	role := staff.Role
	cred, err := s.issuer.Issue(staff.ID, staff.FullName, staff.Email, &role, domain.PrincipalStaff)
	if err != nil {
		s.recordFailure(id, domain.PrincipalStaff, reqCtx, reasonSigningFailure, "signing_failure")
		return nil, domain.Credential{}, err
	}

	// Decision made; everything below is best-effort.
	s.touchLastLogin(domain.PrincipalStaff, staff.ID)
	s.recordSuccess(id, domain.PrincipalStaff, reqCtx)
	return staff, cred, nil
}

// AuthenticateYouth authenticates a youth identifier. The youth
// namespace is looser; the same mandatory-audit rules apply.
func (s *AuthService) AuthenticateYouth(ctx context.Context, rawID string, reqCtx domain.RequestContext) (*domain.YouthIdentity, domain.Credential, error) {
	id := identifier.Normalize(rawID)
	reqCtx = reqCtx.Normalize()

	if err := identifier.Validate(id, domain.PrincipalYouth); err != nil {
		s.recordFailure(id, domain.PrincipalYouth, reqCtx, reasonInvalidYouthFormat, "invalid_format")
		return nil, domain.Credential{}, domain.ErrInvalidFormat
	}

	youth, err := s.youth.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Credential{}, s.lookupFailure(id, domain.PrincipalYouth, reqCtx, err)
	}

	if !youth.IsActive {
		s.recordFailure(id, domain.PrincipalYouth, reqCtx, reasonInactive, "inactive")
		return nil, domain.Credential{}, domain.ErrInactive
	}

	cred, err := s.issuer.Issue(youth.ID, youth.FullName, youth.Email, nil, domain.PrincipalYouth)
	if err != nil {
		s.recordFailure(id, domain.PrincipalYouth, reqCtx, reasonSigningFailure, "signing_failure")
		return nil, domain.Credential{}, err
	}

	s.touchLastLogin(domain.PrincipalYouth, youth.ID)
	s.recordSuccess(id, domain.PrincipalYouth, reqCtx)
	return youth, cred, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) lookupFailure(id string, class domain.PrincipalClass, reqCtx domain.RequestContext, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		s.recordFailure(id, class, reqCtx, reasonNotFound, "not_found")
		return domain.ErrNotFound
	}
	// Transient storage failure, distinct from NotFound. Logged on a
	// best-effort basis like every other outcome.
	s.recordFailure(id, class, reqCtx, reasonUnavailable, "unavailable")
	s.logger.Error("identity lookup failed",
		zap.String("user_id", id),
		zap.String("user_type", string(class)),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}

// touchLastLogin updates the advisory lastLogin timestamp off the
// request path with its own deadline. Failures are logged only.
func (s *AuthService) touchLastLogin(class domain.PrincipalClass, id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lastLoginTimeout)
		defer cancel()

		var err error
		switch class {
		case domain.PrincipalStaff:
			err = s.staff.UpdateLastLogin(ctx, id, time.Now())
		case domain.PrincipalYouth:
			err = s.youth.UpdateLastLogin(ctx, id, time.Now())
		}
		if err != nil {
			s.logger.Warn("last login update failed",
				zap.String("user_id", id),
				zap.String("user_type", string(class)),
				zap.Error(err),
			)
		}
	}()
}

func (s *AuthService) recordSuccess(id string, class domain.PrincipalClass, reqCtx domain.RequestContext) {
	s.metrics.RecordAuthAttempt(string(class), "success")
	s.recorder.Record(domain.AttemptRecord{
		ID:        uuid.NewString(),
		UserID:    id,
		UserType:  class,
		Action:    domain.AttemptActionLogin,
		Success:   true,
		IPAddress: reqCtx.IPAddress,
		UserAgent: reqCtx.UserAgent,
		Timestamp: time.Now(),
	})
}

func (s *AuthService) recordFailure(id string, class domain.PrincipalClass, reqCtx domain.RequestContext, reason, outcome string) {
	s.metrics.RecordAuthAttempt(string(class), outcome)
	s.recorder.Record(domain.AttemptRecord{
		ID:           uuid.NewString(),
		UserID:       id,
		UserType:     class,
		Action:       domain.AttemptActionLogin,
		Success:      false,
		ErrorMessage: &reason,
		IPAddress:    reqCtx.IPAddress,
		UserAgent:    reqCtx.UserAgent,
		Timestamp:    time.Now(),
	})
}
