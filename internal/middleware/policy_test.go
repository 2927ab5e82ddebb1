package middleware

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRoutePolicyRejectsUnknownNames(t *testing.T) {
	_, err := NewRoutePolicy([]string{"submission.list"}, []string{"submissions.list"}, nil)
	require.ErrorContains(t, err, "submission.list")
}

func TestRoutePolicyWrapsOnlyProtectedRoutes(t *testing.T) {
	guard := func(c *fiber.Ctx) error { return fiber.ErrUnauthorized }
	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	policy, err := NewRoutePolicy([]string{"submissions.list"}, []string{"submissions.list", "assignments.list"}, guard)
	require.NoError(t, err)

	require.True(t, policy.Protected("submissions.list"))
	require.False(t, policy.Protected("assignments.list"))
	require.Len(t, policy.Wrap("submissions.list", handler), 2)
	require.Len(t, policy.Wrap("assignments.list", handler), 1)

	app := fiber.New()
	app.Get("/open", policy.Wrap("assignments.list", handler)...)
	app.Get("/closed", policy.Wrap("submissions.list", handler)...)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/open", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/closed", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoutePolicyLogsEveryRoute(t *testing.T) {
	policy, err := NewRoutePolicy([]string{"b"}, []string{"a", "b"}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	policy.Log(zerolog.New(&buf), []string{"b", "a"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"route":"a"`)
	require.Contains(t, lines[0], `"protected":false`)
	require.Contains(t, lines[1], `"route":"b"`)
	require.Contains(t, lines[1], `"protected":true`)
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	app := fiber.New()
	app.Post("/jwt", RateLimit("auth.token", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/jwt", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/jwt", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestCorrelationIDEchoesCallerValue(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetCorrelationID(c)) })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "abc-123", resp.Header.Get("X-Correlation-ID"))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Len(t, resp.Header.Get("X-Correlation-ID"), 36)
}

func TestRegisterCORSCredentialsFollowOrigins(t *testing.T) {
	preflight := func(app *fiber.App) string {
		req := httptest.NewRequest(fiber.MethodOptions, "/", nil)
		req.Header.Set(fiber.HeaderOrigin, "https://app.example.com")
		req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodGet)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.Header.Get(fiber.HeaderAccessControlAllowCredentials)
	}

	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	wildcard := fiber.New()
	Register(wildcard, Config{Logger: &logger})
	require.Empty(t, preflight(wildcard))
	require.Contains(t, logs.String(), "CORS_ALLOW_ORIGINS")

	logs.Reset()
	explicit := fiber.New()
	Register(explicit, Config{Logger: &logger, AllowOrigins: "https://app.example.com"})
	require.Equal(t, "true", preflight(explicit))
	require.Empty(t, logs.String())
}
