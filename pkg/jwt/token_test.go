package jwtPkg

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Setenv(AccessTokenSecret, "test-secret")

	token, exp, err := Sign(map[string]interface{}{
		"id":       "user-1",
		"email":    "a@example.com",
		"username": "alice",
	}, time.Hour)
	require.NoError(t, err)

	user, cred, err := Authenticate(token, AccessTokenSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, token, cred.Token)
	assert.Equal(t, exp, cred.ExpiresAt.Unix())
	assert.False(t, cred.Expired(time.Now()))
}

func TestAuthenticateRejects(t *testing.T) {
	t.Setenv(AccessTokenSecret, "test-secret")

	expired, _, err := Sign(map[string]interface{}{"id": "user-1"}, -time.Minute)
	require.NoError(t, err)
	_, _, err = Authenticate(expired, AccessTokenSecret)
	assert.Error(t, err)

	noID, _, err := Sign(map[string]interface{}{"email": "a@example.com"}, time.Hour)
	require.NoError(t, err)
	_, _, err = Authenticate(noID, AccessTokenSecret)
	assert.ErrorIs(t, err, ErrMissingClaims)

	t.Setenv(AccessTokenSecret, "rotated")
	valid, _, _ := Sign(map[string]interface{}{"id": "user-1"}, time.Hour)
	t.Setenv(AccessTokenSecret, "other")
	_, _, err = Authenticate(valid, AccessTokenSecret)
	assert.Error(t, err)
}

func TestTokenFromRequest(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		token, err := TokenFromRequest(c, c.Query("ws") == "1")
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
		}
		return c.SendString(token)
	})

	cases := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{"bearer header", "/", "Bearer abc", fiber.StatusOK, "abc"},
		{"wrong scheme", "/", "Basic abc", fiber.StatusUnauthorized, ErrInvalidFormat.Error()},
		{"missing", "/", "", fiber.StatusUnauthorized, ErrMissingToken.Error()},
		{"query on websocket", "/?ws=1&access_token=xyz", "", fiber.StatusOK, "xyz"},
		{"query ignored elsewhere", "/?access_token=xyz", "", fiber.StatusUnauthorized, ErrMissingToken.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.body, string(body))
		})
	}
}
