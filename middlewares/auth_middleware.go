package middlewares

import (
	"strconv"
	"strings"

	"partyhub.app/configs"
	"partyhub.app/pkg/responses"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// userIDFromBearer verifies the bearer token issued by the external
// authenticator and returns the caller's user id from its subject claim.
func userIDFromBearer(c *fiber.Ctx) (uint, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return 0, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return configs.JWTSecret(), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller id in c.Locals("userID").
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDFromBearer(c)
		if !ok {
			return responses.Error(c, fiber.StatusUnauthorized, "authentication required")
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// OptionalAuth stores the caller id when a valid bearer token is present
// and continues anonymously otherwise.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := userIDFromBearer(c); ok {
			c.Locals("userID", userID)
		}
		return c.Next()
	}
}
