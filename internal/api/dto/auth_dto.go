package dto

import "time"

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	StaffID string `json:"staffId"`
}

// YouthLoginRequest payload.
type YouthLoginRequest struct {
	YouthID string `json:"youthId"`
}

// StaffUser is the public slice of a staff identity returned on login.
type StaffUser struct {
	StaffID  string `json:"staffId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// YouthUser is the public slice of a youth identity returned on login.
type YouthUser struct {
	YouthID     string `json:"youthId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	ProgramType string `json:"programType"`
}

// LoginSuccess is the success envelope for both entry points.
type LoginSuccess struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	User      any       `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginFailure is the failure envelope. Message is deliberately
// coarse-grained to avoid account enumeration.
type LoginFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
