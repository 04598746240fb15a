package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"partyhub.app/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp(middleware fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", middleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(uint)
		return c.SendString(strconv.FormatUint(uint64(userID), 10))
	})
	return app
}

func signToken(t *testing.T, subject string, key []byte, method jwt.SigningMethod) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func whoami(t *testing.T, app *fiber.App, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestRequireAuth(t *testing.T) {
	app := newAuthTestApp(RequireAuth())

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, "42", configs.JWTSecret(), jwt.SigningMethodHS256)
		status, body := whoami(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "42", body)
	})

	t.Run("missing header", func(t *testing.T) {
		status, _ := whoami(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		status, _ := whoami(t, app, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("wrong key", func(t *testing.T) {
		token := signToken(t, "42", []byte("not-the-secret"), jwt.SigningMethodHS256)
		status, _ := whoami(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(configs.JWTSecret())
		require.NoError(t, err)
		status, _ := whoami(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		token := signToken(t, "not-a-number", configs.JWTSecret(), jwt.SigningMethodHS256)
		status, _ := whoami(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestOptionalAuth(t *testing.T) {
	app := newAuthTestApp(OptionalAuth())

	t.Run("anonymous passes through", func(t *testing.T) {
		status, body := whoami(t, app, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "0", body)
	})

	t.Run("valid token sets user", func(t *testing.T) {
		token := signToken(t, "7", configs.JWTSecret(), jwt.SigningMethodHS256)
		status, body := whoami(t, app, "Bearer "+token)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "7", body)
	})

	t.Run("bad token stays anonymous", func(t *testing.T) {
		status, body := whoami(t, app, "Bearer garbage")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "0", body)
	})
}
