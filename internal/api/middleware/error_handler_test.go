package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frbox-labs/frbox/internal/domain"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))),
	})
	app.Get("/test", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandler(t *testing.T) {
	t.Run("client error surfaces code and detail", func(t *testing.T) {
		app := errorApp(domain.ErrNoFaceDetected)

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "No face detected", body.Error)
		assert.Equal(t, "No face detected in image", body.Detail)
	})

	t.Run("request-specific detail is preserved", func(t *testing.T) {
		app := errorApp(domain.ErrMultipleFaces.WithDetailf("Multiple faces detected (%d). Only one face allowed.", 3))

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body.Detail, "(3)")
	})

	t.Run("internal error detail is masked", func(t *testing.T) {
		app := errorApp(domain.ErrInternal.WithError(errors.New("pixel buffer corrupted at offset 42")))

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Internal error", body.Error)
		assert.Equal(t, "An unexpected error occurred", body.Detail)
		assert.NotContains(t, body.Detail, "offset 42")
	})

	t.Run("fiber error keeps its status", func(t *testing.T) {
		app := errorApp(fiber.NewError(fiber.StatusMethodNotAllowed, "Method Not Allowed"))

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, 405, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Request failed", body.Error)
		assert.Equal(t, "Method Not Allowed", body.Detail)
	})

	t.Run("unknown error becomes generic 500", func(t *testing.T) {
		app := errorApp(errors.New("boom"))

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Internal error", body.Error)
		assert.NotContains(t, body.Detail, "boom")
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		wrapped := domain.ErrUnsupportedFormat.WithError(errors.New("magic bytes: deadbeef"))
		app := errorApp(wrapped)

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Unsupported format", body.Error)
		assert.NotContains(t, body.Detail, "deadbeef")
	})
}

func TestRecoverMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))),
	})
	app.Use(Recover(slog.New(slog.NewTextHandler(io.Discard, nil))))
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal error", body.Error)
	assert.NotContains(t, body.Detail, "unexpected")
}
