package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeGuard(t *testing.T) {
	const maxBytes = 64

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))),
	})
	app.Use(SizeGuard(maxBytes))

	var handlerCalled bool
	app.Post("/test", func(c *fiber.Ctx) error {
		handlerCalled = true
		return c.SendString("OK")
	})

	t.Run("passes small bodies", func(t *testing.T) {
		handlerCalled = false
		req := httptest.NewRequest("POST", "/test", strings.NewReader("small"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.True(t, handlerCalled)
	})

	t.Run("passes a body exactly at the limit", func(t *testing.T) {
		handlerCalled = false
		body := bytes.Repeat([]byte("a"), maxBytes)
		req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.True(t, handlerCalled)
	})

	t.Run("rejects oversized bodies before the handler runs", func(t *testing.T) {
		handlerCalled = false
		body := bytes.Repeat([]byte("a"), maxBytes+1)
		req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 413, resp.StatusCode)
		assert.False(t, handlerCalled)

		var errBody ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
		assert.Equal(t, "Request too large", errBody.Error)
		assert.Contains(t, errBody.Detail, "Maximum size is 64 bytes")
	})

	t.Run("passes requests without a body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})
}
