package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/api/http/handlers"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/internal/service"
)

type stubProvisioner struct {
	created bool
}

func (s *stubProvisioner) ProvisionStaff(_ context.Context, input service.StaffInput) (*domain.StaffIdentity, bool, error) {
	return &domain.StaffIdentity{
		ID: strings.ToUpper(input.ID), FullName: input.FullName,
		Email: input.Email, Role: input.Role, IsActive: true,
	}, s.created, nil
}

func (s *stubProvisioner) GetStaff(context.Context, string) (*domain.StaffIdentity, error) {
	return nil, domain.ErrNotFound
}

func (s *stubProvisioner) ListStaff(context.Context, repository.StaffFilter) ([]domain.StaffIdentity, error) {
	return nil, nil
}

func (s *stubProvisioner) DeleteStaff(context.Context, string) error { return nil }

func (s *stubProvisioner) ProvisionYouth(_ context.Context, input service.YouthInput) (*domain.YouthIdentity, bool, error) {
	return &domain.YouthIdentity{
		ID: strings.ToUpper(input.ID), FullName: input.FullName,
		Email: input.Email, ProgramType: input.ProgramType, IsActive: true,
	}, s.created, nil
}

func (s *stubProvisioner) RecentAttempts(context.Context, string, int) ([]domain.AttemptRecord, error) {
	return nil, nil
}

func newStaffApp(stub *stubProvisioner) *fiber.App {
	app := fiber.New()
	handler := handlers.NewStaffHandler(stub)
	app.Put("/admin/staff", handler.ProvisionStaff)
	app.Put("/admin/youth", handler.ProvisionYouth)
	return app
}

func putJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestProvisionStaffStatusReflectsUpsert(t *testing.T) {
	body := `{"staffId":"ad400","fullName":"Alex Doe","email":"alex@example.org","role":"admin"}`

	resp := putJSON(t, newStaffApp(&stubProvisioner{created: true}), "/admin/staff", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = putJSON(t, newStaffApp(&stubProvisioner{created: false}), "/admin/staff", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProvisionYouthStatusReflectsUpsert(t *testing.T) {
	body := `{"youthId":"yt999","fullName":"Robin Hale","email":"robin@example.org","programType":"explorers"}`

	resp := putJSON(t, newStaffApp(&stubProvisioner{created: true}), "/admin/youth", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = putJSON(t, newStaffApp(&stubProvisioner{created: false}), "/admin/youth", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
