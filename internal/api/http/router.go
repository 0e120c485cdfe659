package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/http/handlers"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Auth.StaffLogin)
	authGroup.Post("/youth/login", cfg.Auth.YouthLogin)

	// Provisioning surface for administrative tooling. Trainers may
	// create nothing, so they have no business here at all.
	admin := app.Group("/admin",
		cfg.AuthMiddleware.Handle,
		auth.RequireStaffRole(domain.StaffRoleAdmin, domain.StaffRoleSuperadmin),
	)
	admin.Put("/staff", cfg.Staff.ProvisionStaff)
	admin.Get("/staff", cfg.Staff.ListStaff)
	admin.Get("/staff/:id", cfg.Staff.GetStaff)
	admin.Delete("/staff/:id", cfg.Staff.DeleteStaff)
	admin.Put("/youth", cfg.Staff.ProvisionYouth)
	admin.Get("/attempts/:userId", cfg.Staff.ListAttempts)
}
