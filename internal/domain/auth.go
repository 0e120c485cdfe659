package domain

import "time"

// PrincipalClass differentiates staff vs youth principals.
type PrincipalClass string

const (
	PrincipalStaff PrincipalClass = "staff"
	PrincipalYouth PrincipalClass = "youth"
)

// Credential is the ephemeral result of a successful authentication.
// It is never persisted; validity is entirely self-contained in the
// signed token.
type Credential struct {
	Token     string
	Principal PrincipalClass
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AttemptAction enumerates audited actions. Only login exists today.
type AttemptAction string

const AttemptActionLogin AttemptAction = "login"

// AttemptRecord is one append-only audit entry per authentication call,
// success or failure. ErrorMessage is set iff the attempt failed.
type AttemptRecord struct {
	ID           string
	UserID       string
	UserType     PrincipalClass
	Action       AttemptAction
	Success      bool
	ErrorMessage *string
	IPAddress    string
	UserAgent    string
	Timestamp    time.Time
}

// RequestContext carries caller network metadata for audit purposes.
// Missing fields degrade to the "unknown" sentinel.
type RequestContext struct {
	IPAddress string
	UserAgent string
}

// UnknownSentinel substitutes for absent caller metadata.
const UnknownSentinel = "unknown"

// Normalize fills absent metadata with the sentinel value.
func (rc RequestContext) Normalize() RequestContext {
	if rc.IPAddress == "" {
		rc.IPAddress = UnknownSentinel
	}
	if rc.UserAgent == "" {
		rc.UserAgent = UnknownSentinel
	}
	return rc
}
