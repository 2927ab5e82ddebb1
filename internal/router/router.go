package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/assignment-champs-api/internal/config"
	"github.com/noah-isme/assignment-champs-api/internal/handler"
	"github.com/noah-isme/assignment-champs-api/internal/middleware"
	"github.com/noah-isme/assignment-champs-api/internal/observability"
)

// Routes that may be absent from a deployment but can still be named in the policy.
var optionalRoutes = []string{"uploads.create"}

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	AuthHandler       *handler.AuthHandler
	HealthHandler     *handler.HealthHandler
	// UploadHandler is nil when thumbnail storage is not configured.
	UploadHandler *handler.UploadHandler
	TokenVerifier middleware.TokenVerifier
	Logger        zerolog.Logger
}

// Register wires the HTTP routes into the fiber application, gating the routes
// named in cfg.ProtectedRoutes behind the token cookie.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) (*middleware.RoutePolicy, error) {
	var routes []handler.Route
	if deps.HealthHandler != nil {
		routes = append(routes, deps.HealthHandler.Routes()...)
	}
	routes = append(routes, handler.Route{
		Name:    "metrics",
		Method:  fiber.MethodGet,
		Path:    "/metrics",
		Handler: observability.MetricsHandler(),
	})
	if deps.AssignmentHandler != nil {
		routes = append(routes, deps.AssignmentHandler.Routes()...)
	}
	if deps.SubmissionHandler != nil {
		routes = append(routes, deps.SubmissionHandler.Routes()...)
	}
	if deps.AuthHandler != nil {
		routes = append(routes, deps.AuthHandler.Routes()...)
	}
	if deps.UploadHandler != nil {
		routes = append(routes, deps.UploadHandler.Routes()...)
	}

	var guard fiber.Handler
	if deps.TokenVerifier != nil {
		guard = middleware.JWTProtected(deps.TokenVerifier)
	}

	names := handler.RouteNames(routes)
	policy, err := middleware.NewRoutePolicy(cfg.ProtectedRoutes, append(names, optionalRoutes...), guard)
	if err != nil {
		return nil, err
	}
	policy.Log(deps.Logger.With().Str("component", "router").Logger(), names)

	tokenLimiter := middleware.RateLimit("auth.token", cfg.TokenRateLimit, time.Minute)

	for _, route := range routes {
		handlers := policy.Wrap(route.Name, route.Handler)
		if route.Name == "auth.token" {
			handlers = append([]fiber.Handler{tokenLimiter}, handlers...)
		}
		app.Add(route.Method, route.Path, handlers...)
	}

	return policy, nil
}
