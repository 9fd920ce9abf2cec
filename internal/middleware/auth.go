package middleware

import (
	"crypto/subtle"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware gates the local API behind a shared secret that the shell
// passes to each window. Unset secret means an open API (development).
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware reads QUACK_AUTH_SECRET; returns nil when unset
func NewAuthMiddleware() *AuthMiddleware {
	secret := os.Getenv("QUACK_AUTH_SECRET")
	if secret == "" {
		return nil
	}
	return &AuthMiddleware{secret: []byte(secret)}
}

// RequireAuth checks the shared secret on every request except /health
func (am *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	if am == nil {
		return c.Next()
	}

	if c.Path() == "/health" {
		return c.Next()
	}

	token := am.extractToken(c)
	if token == "" || subtle.ConstantTimeCompare([]byte(token), am.secret) != 1 {
		return c.Status(401).JSON(fiber.Map{
			"error": "authentication required",
		})
	}
	return c.Next()
}

func (am *AuthMiddleware) extractToken(c *fiber.Ctx) string {
	if auth := c.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// EventSource and WebSocket clients cannot set headers
	return c.Query("token")
}
