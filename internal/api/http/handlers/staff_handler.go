package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/internal/service"
)

// Provisioner is the slice of the provisioning service the handler needs.
type Provisioner interface {
	ProvisionStaff(ctx context.Context, input service.StaffInput) (*domain.StaffIdentity, bool, error)
	GetStaff(ctx context.Context, id string) (*domain.StaffIdentity, error)
	ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffIdentity, error)
	DeleteStaff(ctx context.Context, id string) error
	ProvisionYouth(ctx context.Context, input service.YouthInput) (*domain.YouthIdentity, bool, error)
	RecentAttempts(ctx context.Context, userID string, limit int) ([]domain.AttemptRecord, error)
}

// StaffHandler exposes administrative provisioning endpoints.
type StaffHandler struct {
	provisioner Provisioner
}

// NewStaffHandler constructs handler.
func NewStaffHandler(provisioner Provisioner) *StaffHandler {
	return &StaffHandler{provisioner: provisioner}
}

// ProvisionStaff handles PUT /admin/staff.
func (h *StaffHandler) ProvisionStaff(c *fiber.Ctx) error {
	var req dto.StaffProvisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	staff, created, err := h.provisioner.ProvisionStaff(c.UserContext(), service.StaffInput{
		ID:          req.StaffID,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        domain.StaffRole(req.Role),
		CreatedBy:   req.CreatedBy,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.Status(upsertStatus(created)).JSON(fiber.Map{"data": staffResponse(staff)})
}

// GetStaff handles GET /admin/staff/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	staff, err := h.provisioner.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// ListStaff handles GET /admin/staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	list, err := h.provisioner.ListStaff(c.UserContext(), parseStaffFilter(c))
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		resp = append(resp, staffResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// DeleteStaff handles DELETE /admin/staff/:id.
func (h *StaffHandler) DeleteStaff(c *fiber.Ctx) error {
	if err := h.provisioner.DeleteStaff(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// ProvisionYouth handles PUT /admin/youth.
func (h *StaffHandler) ProvisionYouth(c *fiber.Ctx) error {
	var req dto.YouthProvisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	youth, created, err := h.provisioner.ProvisionYouth(c.UserContext(), service.YouthInput{
		ID:          req.YouthID,
		FullName:    req.FullName,
		Email:       req.Email,
		ProgramType: req.ProgramType,
		OSMUsername: req.OSMUsername,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.Status(upsertStatus(created)).JSON(fiber.Map{"data": youthResponse(youth)})
}

// ListAttempts handles GET /admin/attempts/:userId.
func (h *StaffHandler) ListAttempts(c *fiber.Ctx) error {
	limit := 50
	if val := c.Query("limit"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	attempts, err := h.provisioner.RecentAttempts(c.UserContext(), c.Params("userId"), limit)
	if err != nil {
		return err
	}
	resp := make([]dto.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		resp = append(resp, attemptResponse(&attempts[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// upsertStatus distinguishes a fresh row from an update of an
// existing one.
func upsertStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func parseStaffFilter(c *fiber.Ctx) repository.StaffFilter {
	var filter repository.StaffFilter
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(roleStr)
		filter.Role = &role
	}
	if creator := c.Query("created_by"); creator != "" {
		filter.CreatedBy = &creator
	}
	if active := c.Query("active"); active != "" {
		if val, err := strconv.ParseBool(active); err == nil {
			filter.Active = &val
		}
	}
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func staffResponse(staff *domain.StaffIdentity) dto.StaffResponse {
	return dto.StaffResponse{
		StaffID:     staff.ID,
		FullName:    staff.FullName,
		Email:       staff.Email,
		PhoneNumber: staff.PhoneNumber,
		Role:        string(staff.Role),
		CreatedBy:   staff.CreatedBy,
		IsActive:    staff.IsActive,
		LastLogin:   staff.LastLogin,
	}
}

func youthResponse(youth *domain.YouthIdentity) dto.YouthResponse {
	return dto.YouthResponse{
		YouthID:     youth.ID,
		FullName:    youth.FullName,
		Email:       youth.Email,
		ProgramType: youth.ProgramType,
		OSMUsername: youth.OSMUsername,
		IsActive:    youth.IsActive,
		LastLogin:   youth.LastLogin,
	}
}

func attemptResponse(attempt *domain.AttemptRecord) dto.AttemptResponse {
	return dto.AttemptResponse{
		ID:           attempt.ID,
		UserID:       attempt.UserID,
		UserType:     string(attempt.UserType),
		Action:       string(attempt.Action),
		Success:      attempt.Success,
		ErrorMessage: attempt.ErrorMessage,
		IPAddress:    attempt.IPAddress,
		UserAgent:    attempt.UserAgent,
		Timestamp:    attempt.Timestamp,
	}
}
