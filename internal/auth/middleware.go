package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

const claimsContextKey = "auth.claims"

// Middleware returns a fiber handler that requires a valid Bearer token and
// stores its claims in the request context.
func Middleware(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperrors.NewUnauthenticated("missing authorization header")
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			return apperrors.NewUnauthenticated("malformed authorization header")
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return apperrors.NewUnauthenticated("invalid or expired token")
		}

		c.Locals(claimsContextKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext returns the authenticated admin's claims, nil when the
// request did not pass the middleware.
func ClaimsFromContext(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(claimsContextKey).(*Claims)
	return claims
}
