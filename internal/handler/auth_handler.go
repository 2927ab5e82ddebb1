package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/assignment-champs-api/internal/dto"
	"github.com/noah-isme/assignment-champs-api/internal/middleware"
	"github.com/noah-isme/assignment-champs-api/internal/service"
	"github.com/noah-isme/assignment-champs-api/internal/utils"
)

// AuthHandler issues and clears the session cookie.
type AuthHandler struct {
	tokens       service.TokenService
	secureCookie bool
	logger       zerolog.Logger
}

// NewAuthHandler constructs the handler. secureCookie should only be false for
// plain HTTP development setups.
func NewAuthHandler(tokens service.TokenService, secureCookie bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		tokens:       tokens,
		secureCookie: secureCookie,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Routes lists the token endpoints.
func (h *AuthHandler) Routes() []Route {
	return []Route{
		{Name: "auth.token", Method: fiber.MethodPost, Path: "/jwt", Handler: h.issue},
		{Name: "auth.logout", Method: fiber.MethodPost, Path: "/logout", Handler: h.logout},
	}
}

func (h *AuthHandler) issue(c *fiber.Ctx) error {
	var payload dto.TokenRequest
	if err := decodeBody(c, schemaTokenRequest, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	token, expiresAt, err := h.tokens.Issue(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Cookie(h.cookie(token, expiresAt, 0))
	return utils.SendJSON(c, fiber.StatusOK, dto.StatusResponse{Success: true})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	c.Cookie(h.cookie("", time.Unix(0, 0).UTC(), -1))
	requestLogger(h.logger, c).Debug().Msg("token cookie cleared")
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) cookie(value string, expires time.Time, maxAge int) *fiber.Cookie {
	// Browsers drop SameSite=None cookies that are not Secure, so plain HTTP
	// setups fall back to Lax.
	sameSite := fiber.CookieSameSiteNoneMode
	if !h.secureCookie {
		sameSite = fiber.CookieSameSiteLaxMode
	}

	return &fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: sameSite,
	}
}
