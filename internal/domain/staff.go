package domain

import "time"

// StaffRole enumerates staff privilege levels.
type StaffRole string

const (
	StaffRoleTrainer    StaffRole = "trainer"
	StaffRoleAdmin      StaffRole = "admin"
	StaffRoleSuperadmin StaffRole = "superadmin"
)

// Rank returns the position of the role in the privilege order
// trainer < admin < superadmin. Unknown roles rank zero.
func (r StaffRole) Rank() int {
	switch r {
	case StaffRoleTrainer:
		return 1
	case StaffRoleAdmin:
		return 2
	case StaffRoleSuperadmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the role is one of the known staff roles.
func (r StaffRole) Valid() bool {
	return r.Rank() > 0
}

// CanCreate reports whether a creator with this role may provision an
// account with the given role. Creators must strictly outrank the role
// they create; trainers may create nothing.
func (r StaffRole) CanCreate(target StaffRole) bool {
	return r.Rank() > target.Rank() && target.Valid()
}

// StaffIdentity models a staff member account. The id is the externally
// supplied identifier (normalized uppercase) and is immutable once
// created, as is CreatedBy.
type StaffIdentity struct {
	ID          string
	FullName    string
	Email       string
	PhoneNumber *string
	Role        StaffRole
	CreatedBy   *string
	IsActive    bool
	LastLogin   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
