package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-repair-service/internal/api/http/handlers"
	"github.com/spec-kit/it-repair-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Line        *handlers.LineHandler
	Tickets     *handlers.TicketsHandler
	Departments *handlers.DepartmentsHandler
	Auth        *handlers.AuthHandler
	Tokens      *auth.TokenManager
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	api.Post("/line/webhook", cfg.Line.Webhook)

	api.Post("/tickets", cfg.Tickets.Create)
	api.Get("/tickets/line/:lineUserId", cfg.Tickets.ListByLineUser)

	api.Get("/departments", cfg.Departments.List)

	api.Post("/auth/register", cfg.Auth.Register)
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("", auth.Middleware(cfg.Tokens))
	protected.Get("/auth/profile", cfg.Auth.Profile)
	protected.Get("/tickets", cfg.Tickets.List)
	protected.Get("/tickets/:id", cfg.Tickets.Get)
	protected.Put("/tickets/:id", cfg.Tickets.Update)
	protected.Post("/departments", cfg.Departments.Create)
}
