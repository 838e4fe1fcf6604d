package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/decor-manager/internal/api/http/handlers"
	"github.com/spec-kit/decor-manager/internal/auth"
	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Notifications  *handlers.NotificationsHandler
	Enquiries      *handlers.EnquiriesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", handlers.MetricsHandler(registry))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/otp/send", cfg.Auth.SendOTP)
	authGroup.Post("/otp/verify", cfg.Auth.VerifyOTP)
	authGroup.Post("/otp/resend", cfg.Auth.ResendOTP)
	authGroup.Post("/otp/back", cfg.Auth.BackToPhone)
	authGroup.Get("/otp/status", cfg.Auth.OTPStatus)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)
	authGroup.Get("/permissions/:perm", cfg.Auth.Permission)
	authGroup.Get("/providers", cfg.Auth.Providers)
	authGroup.Put("/providers", cfg.AuthMiddleware.Handle, auth.RequirePermission(domain.PermManageStaff), cfg.Auth.UpdateProviders)

	enquiries := app.Group("/enquiries", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	enquiries.Post("/access", cfg.Enquiries.Access)
	enquiries.Put("/", cfg.Enquiries.Replace)
	enquiries.Post("/events/created", auth.RequirePermission(domain.PermCreateEnquiry), cfg.Enquiries.Created)
	enquiries.Post("/events/status", cfg.Enquiries.StatusChanged)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	notifications.Get("/", cfg.Notifications.List)
	notifications.Delete("/", cfg.Notifications.Clear)
	notifications.Get("/stats", cfg.Notifications.Stats)
	notifications.Post("/check", cfg.Notifications.Check)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Get("/settings", cfg.Notifications.Settings)
	notifications.Put("/settings", cfg.Notifications.UpdateSettings)
	notifications.Post("/enable", cfg.Notifications.Enable)
	notifications.Post("/disable", cfg.Notifications.Disable)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Post("/:id/open", cfg.Notifications.Open)
}
