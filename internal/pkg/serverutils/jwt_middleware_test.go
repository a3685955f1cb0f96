package serverutils

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JwtMiddleware("secret"), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})

	good := signed(t, "secret", jwt.MapClaims{"user_id": "u-1"})

	tests := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{name: "header", target: "/me", header: "Bearer " + good, status: 200, body: "u-1"},
		{name: "query", target: "/me?token=" + good, status: 200, body: "u-1"},
		{name: "missing", target: "/me", status: 401},
		{name: "wrong secret", target: "/me?token=" + signed(t, "other", jwt.MapClaims{"user_id": "u-1"}), status: 401},
		{name: "no user id", target: "/me?token=" + signed(t, "secret", jwt.MapClaims{"sub": "x"}), status: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				b, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(b))
			}
		})
	}
}
