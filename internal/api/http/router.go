package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/api/http/handlers"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
	ElevatedRole   string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/verify", cfg.AuthMiddleware.Handle, cfg.Users.Verify)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:code", cfg.Tickets.Get)
	tickets.Put("/:code/process", cfg.Tickets.Process)
	tickets.Patch("/:code/draft", cfg.Tickets.PatchDraft)
	// The engine re-validates the role; the guard here keeps the obvious
	// case out of the service layer.
	tickets.Put("/:code/attention", auth.RequireElevated(cfg.ElevatedRole), cfg.Tickets.ToggleAttention)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	notifications.Get("/", cfg.Notifications.List)
	notifications.Post("/demo", cfg.Notifications.GenerateDemo)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Dismiss)
}
