package dto

import "time"

// StaffProvisionRequest payload for creating or updating a staff identity.
type StaffProvisionRequest struct {
	StaffID     string  `json:"staffId"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Role        string  `json:"role"`
	CreatedBy   *string `json:"createdBy,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// StaffResponse mirrors a staff identity without internal fields.
type StaffResponse struct {
	StaffID     string     `json:"staffId"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
	Role        string     `json:"role"`
	CreatedBy   *string    `json:"createdBy,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

// YouthProvisionRequest payload for creating or updating a youth identity.
type YouthProvisionRequest struct {
	YouthID     string  `json:"youthId"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	ProgramType string  `json:"programType"`
	OSMUsername *string `json:"osmUsername,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// YouthResponse mirrors a youth identity.
type YouthResponse struct {
	YouthID     string     `json:"youthId"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	ProgramType string     `json:"programType"`
	OSMUsername *string    `json:"osmUsername,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

// AttemptResponse mirrors one audit entry for operator tooling.
type AttemptResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	UserType     string    `json:"userType"`
	Action       string    `json:"action"`
	Success      bool      `json:"success"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	Timestamp    time.Time `json:"timestamp"`
}
