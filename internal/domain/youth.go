package domain

import "time"

// YouthIdentity models a youth participant account. Youth ids live in a
// separate namespace from staff ids and carry no hierarchy.
type YouthIdentity struct {
	ID          string
	FullName    string
	Email       string
	ProgramType string
	OSMUsername *string
	IsActive    bool
	LastLogin   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
