package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/identifier"
	"github.com/spec-kit/identity-service/internal/repository"
)

// ProvisionService manages staff and youth account provisioning. The
// role hierarchy is enforced here, once, at creation time: createdBy is
// immutable and can only reference pre-existing rows, so the creation
// relation stays a forest without any runtime cycle detection.
type ProvisionService struct {
	staff    repository.StaffRepository
	youth    repository.YouthRepository
	attempts repository.AttemptRepository
	logger   *zap.Logger
}

// NewProvisionService builds the service.
func NewProvisionService(staff repository.StaffRepository, youth repository.YouthRepository, attempts repository.AttemptRepository, logger *zap.Logger) *ProvisionService {
	return &ProvisionService{staff: staff, youth: youth, attempts: attempts, logger: logger}
}

// StaffInput describes a provisioning request for a staff identity.
type StaffInput struct {
	ID          string
	FullName    string
	Email       string
	PhoneNumber *string
	Role        domain.StaffRole
	CreatedBy   *string
	IsActive    *bool
}

// Validate checks field shapes before any store access.
func (in StaffInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Email, validation.Required, is.Email),
	)
}

// ProvisionStaff creates a staff identity, or applies an idempotent
// update when the id already exists. Re-provisioning with identical
// fields is a no-op; id and createdBy never change. The boolean
// reports whether a new row was created.
func (s *ProvisionService) ProvisionStaff(ctx context.Context, input StaffInput) (*domain.StaffIdentity, bool, error) {
	id := identifier.Normalize(input.ID)
	if err := identifier.Validate(id, domain.PrincipalStaff); err != nil {
		return nil, false, err
	}
	if err := input.Validate(); err != nil {
		return nil, false, err
	}
	if !input.Role.Valid() {
		return nil, false, fmt.Errorf("%w: unknown role %q", domain.ErrHierarchyViolation, input.Role)
	}

	existing, err := s.staff.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if existing != nil {
		staff, err := s.updateStaff(ctx, existing, input)
		return staff, false, err
	}
	staff, err := s.createStaff(ctx, id, input)
	if err != nil {
		return nil, false, err
	}
	return staff, true, nil
}

func (s *ProvisionService) createStaff(ctx context.Context, id string, input StaffInput) (*domain.StaffIdentity, error) {
	if input.CreatedBy == nil {
		// Root accounts are reserved for initial bootstrap. Once any
		// root exists, provisioning further roots is rejected.
		roots, err := s.staff.CountRoots(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
		}
		if roots > 0 {
			return nil, fmt.Errorf("%w: root account already provisioned", domain.ErrHierarchyViolation)
		}
	} else {
		if err := s.checkCreator(ctx, *input.CreatedBy, input.Role); err != nil {
			return nil, err
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	staff := &domain.StaffIdentity{
		ID:          id,
		FullName:    input.FullName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Role:        input.Role,
		CreatedBy:   normalizeCreator(input.CreatedBy),
		IsActive:    active,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	s.logger.Info("staff identity provisioned",
		zap.String("id", staff.ID),
		zap.String("role", string(staff.Role)),
	)
	return staff, nil
}

func (s *ProvisionService) updateStaff(ctx context.Context, existing *domain.StaffIdentity, input StaffInput) (*domain.StaffIdentity, error) {
	if !sameCreator(existing.CreatedBy, normalizeCreator(input.CreatedBy)) {
		return nil, domain.ErrConflict
	}

	active := existing.IsActive
	if input.IsActive != nil {
		active = *input.IsActive
	}

	noop := existing.FullName == input.FullName &&
		existing.Email == input.Email &&
		samePhone(existing.PhoneNumber, input.PhoneNumber) &&
		existing.Role == input.Role &&
		existing.IsActive == active
	if noop {
		return existing, nil
	}

	// A role change is re-validated against the original creator.
	if existing.Role != input.Role && existing.CreatedBy != nil {
		if err := s.checkCreator(ctx, *existing.CreatedBy, input.Role); err != nil {
			return nil, err
		}
	}

	existing.FullName = input.FullName
	existing.Email = input.Email
	existing.PhoneNumber = input.PhoneNumber
	existing.Role = input.Role
	existing.IsActive = active
	if err := s.staff.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return existing, nil
}

// checkCreator enforces the hierarchy rule: the creator must exist
// first and strictly outrank the role being created.
func (s *ProvisionService) checkCreator(ctx context.Context, creatorID string, role domain.StaffRole) error {
	creator, err := s.staff.GetByID(ctx, identifier.Normalize(creatorID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: creator %q does not exist", domain.ErrHierarchyViolation, creatorID)
		}
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if !creator.Role.CanCreate(role) {
		return fmt.Errorf("%w: %s may not create %s", domain.ErrHierarchyViolation, creator.Role, role)
	}
	return nil
}

// GetStaff fetches one staff identity.
func (s *ProvisionService) GetStaff(ctx context.Context, id string) (*domain.StaffIdentity, error) {
	return s.staff.GetByID(ctx, identifier.Normalize(id))
}

// ListStaff lists staff identities with filters.
func (s *ProvisionService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffIdentity, error) {
	return s.staff.List(ctx, filter)
}

// DeleteStaff removes a staff identity. Dependents survive with their
// createdBy nulled out rather than cascading.
func (s *ProvisionService) DeleteStaff(ctx context.Context, id string) error {
	return s.staff.Delete(ctx, identifier.Normalize(id))
}

// RecentAttempts returns the audit trail for one identifier, newest
// first. Operators see the precise internal failure reasons here.
func (s *ProvisionService) RecentAttempts(ctx context.Context, userID string, limit int) ([]domain.AttemptRecord, error) {
	return s.attempts.ListByUser(ctx, identifier.Normalize(userID), limit)
}

// YouthInput describes a provisioning request for a youth identity.
type YouthInput struct {
	ID          string
	FullName    string
	Email       string
	ProgramType string
	OSMUsername *string
	IsActive    *bool
}

// Validate checks field shapes before any store access.
func (in YouthInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.ProgramType, validation.Required, validation.Length(1, 100)),
	)
}

// ProvisionYouth creates or idempotently updates a youth identity.
// The boolean reports whether a new row was created.
func (s *ProvisionService) ProvisionYouth(ctx context.Context, input YouthInput) (*domain.YouthIdentity, bool, error) {
	id := identifier.Normalize(input.ID)
	if err := identifier.Validate(id, domain.PrincipalYouth); err != nil {
		return nil, false, err
	}
	if err := input.Validate(); err != nil {
		return nil, false, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	existing, err := s.youth.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if existing != nil {
		existing.FullName = input.FullName
		existing.Email = input.Email
		existing.ProgramType = input.ProgramType
		existing.OSMUsername = input.OSMUsername
		existing.IsActive = active
		if err := s.youth.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
		}
		return existing, false, nil
	}

	youth := &domain.YouthIdentity{
		ID:          id,
		FullName:    input.FullName,
		Email:       input.Email,
		ProgramType: input.ProgramType,
		OSMUsername: input.OSMUsername,
		IsActive:    active,
	}
	if err := s.youth.Create(ctx, youth); err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return youth, true, nil
}

func normalizeCreator(creator *string) *string {
	if creator == nil {
		return nil
	}
	normalized := identifier.Normalize(*creator)
	return &normalized
}

func sameCreator(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func samePhone(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
