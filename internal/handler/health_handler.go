package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/assignment-champs-api/internal/config"
	"github.com/noah-isme/assignment-champs-api/internal/utils"
)

// ReadyMessage is the plain text body served at the root path.
const ReadyMessage = "Assignment Champs are ready to study together"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// HealthHandler serves the liveness endpoints.
type HealthHandler struct {
	cfg    config.Config
	store  Pinger
	logger zerolog.Logger
}

// NewHealthHandler constructs the handler. A nil store skips the ping.
func NewHealthHandler(cfg config.Config, store Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		cfg:    cfg,
		store:  store,
		logger: logger.With().Str("component", "health_handler").Logger(),
	}
}

// Routes lists the liveness endpoints.
func (h *HealthHandler) Routes() []Route {
	return []Route{
		{Name: "root", Method: fiber.MethodGet, Path: "/", Handler: h.root},
		{Name: "health", Method: fiber.MethodGet, Path: "/health", Handler: h.health},
	}
}

func (h *HealthHandler) root(c *fiber.Ctx) error {
	return c.SendString(ReadyMessage)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	payload := HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Service:     h.cfg.AppName,
		Environment: h.cfg.AppEnv,
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("store ping failed")
			payload.Status = "unavailable"
			return utils.SendJSON(c, fiber.StatusServiceUnavailable, payload)
		}
	}

	return utils.SendJSON(c, fiber.StatusOK, payload)
}
