package domain

import "errors"

// Authentication and provisioning failure taxonomy. Handlers map these
// onto HTTP statuses; services wrap them with context via fmt.Errorf
// and %w so errors.Is keeps working across layers.
var (
	// ErrInvalidFormat rejects identifiers failing the class pattern
	// before any store access happens.
	ErrInvalidFormat = errors.New("invalid identifier format")

	// ErrNotFound means no identity row exists for the identifier.
	ErrNotFound = errors.New("identity not found")

	// ErrInactive means the identity exists but is gated off.
	ErrInactive = errors.New("account inactive")

	// ErrHierarchyViolation rejects provisioning a role the creator
	// may not create.
	ErrHierarchyViolation = errors.New("creator role may not create this role")

	// ErrUnavailable marks transient storage failures and timeouts,
	// distinct from NotFound. The only condition callers may retry.
	ErrUnavailable = errors.New("identity store unavailable")

	// ErrSigningFailure marks token issuer misconfiguration. Fatal at
	// startup, never retried per request.
	ErrSigningFailure = errors.New("credential signing failed")

	// ErrConflict rejects provisioning writes that would change an
	// immutable field of an existing identity.
	ErrConflict = errors.New("identity exists with conflicting immutable fields")
)
