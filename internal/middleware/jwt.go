package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/assignment-champs-api/internal/service"
	"github.com/noah-isme/assignment-champs-api/internal/utils"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

// Locals keys populated by JWTProtected.
const (
	LocalUserEmail  = "user_email"
	LocalUserClaims = "user_claims"
)

// TokenVerifier validates a raw token string.
type TokenVerifier interface {
	Verify(token string) (*service.Claims, error)
}

// JWTProtected returns a middleware that validates the token cookie. A missing
// cookie is rejected with 401, an unusable one with 403.
func JWTProtected(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := strings.TrimSpace(c.Cookies(TokenCookieName))
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized access")
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusForbidden, "forbidden access")
		}

		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserClaims, claims)

		return c.Next()
	}
}

// UserEmail returns the verified caller email, or "" for anonymous requests.
func UserEmail(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocalUserEmail).(string); ok {
		return v
	}
	return ""
}
