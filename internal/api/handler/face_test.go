package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/frbox-labs/frbox/internal/api/middleware"
	"github.com/frbox-labs/frbox/internal/domain"
)

// MockFaceService is a mock implementation of FaceService
type MockFaceService struct {
	mock.Mock
}

func (m *MockFaceService) ExtractEmbedding(ctx context.Context, imageData string) (domain.Embedding, error) {
	args := m.Called(ctx, imageData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Embedding), args.Error(1)
}

func (m *MockFaceService) Verify(a, b domain.Embedding, threshold float64) (domain.VerificationResult, error) {
	args := m.Called(a, b, threshold)
	return args.Get(0).(domain.VerificationResult), args.Error(1)
}

// testLogger returns a logger that discards all output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupApp(svc FaceService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})
	h := NewFaceHandler(svc, testLogger())
	app.Post("/embedding", h.Embedding)
	app.Post("/verify", h.Verify)
	return app
}

func doPost(t *testing.T, app *fiber.App, path string, body []byte) (int, middleware.ErrorResponse, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	var errBody middleware.ErrorResponse
	_ = json.Unmarshal(buf.Bytes(), &errBody)

	return resp.StatusCode, errBody, buf.Bytes()
}

func TestEmbedding(t *testing.T) {
	t.Run("returns embedding and dimensionality", func(t *testing.T) {
		embedding := make(domain.Embedding, 128)
		embedding[0] = 0.5

		svc := &MockFaceService{}
		svc.On("ExtractEmbedding", mock.Anything, "aW1hZ2U=").Return(embedding, nil)

		app := setupApp(svc)
		status, _, raw := doPost(t, app, "/embedding", []byte(`{"image_data":"aW1hZ2U="}`))
		assert.Equal(t, 200, status)

		var body EmbeddingResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Len(t, body.Embedding, 128)
		assert.Equal(t, 128, body.Dim)
		assert.Equal(t, 0.5, body.Embedding[0])

		svc.AssertExpectations(t)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		app := setupApp(&MockFaceService{})
		status, errBody, _ := doPost(t, app, "/embedding", []byte(`{not json`))
		assert.Equal(t, 400, status)
		assert.Equal(t, "Invalid input", errBody.Error)
	})

	t.Run("rejects empty image_data", func(t *testing.T) {
		app := setupApp(&MockFaceService{})
		status, errBody, _ := doPost(t, app, "/embedding", []byte(`{"image_data":"   "}`))
		assert.Equal(t, 400, status)
		assert.Equal(t, "Invalid input", errBody.Error)
		assert.Contains(t, errBody.Detail, "empty")
	})

	t.Run("rejects non-transport characters", func(t *testing.T) {
		app := setupApp(&MockFaceService{})
		status, errBody, _ := doPost(t, app, "/embedding", []byte(`{"image_data":"imagemé"}`))
		assert.Equal(t, 400, status)
		assert.Equal(t, "Invalid input", errBody.Error)
	})

	t.Run("propagates service errors", func(t *testing.T) {
		svc := &MockFaceService{}
		svc.On("ExtractEmbedding", mock.Anything, "aW1hZ2U=").Return(nil, domain.ErrNoFaceDetected)

		app := setupApp(svc)
		status, errBody, _ := doPost(t, app, "/embedding", []byte(`{"image_data":"aW1hZ2U="}`))
		assert.Equal(t, 400, status)
		assert.Equal(t, "No face detected", errBody.Error)
	})
}

func TestVerify(t *testing.T) {
	t.Run("returns match result", func(t *testing.T) {
		svc := &MockFaceService{}
		svc.On("Verify", mock.Anything, mock.Anything, 0.8).
			Return(domain.VerificationResult{Match: true, Confidence: 0.95}, nil)

		app := setupApp(svc)
		status, _, raw := doPost(t, app, "/verify",
			[]byte(`{"embedding_a":[1,0],"embedding_b":[1,0],"threshold":0.8}`))
		assert.Equal(t, 200, status)

		var body VerifyResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.True(t, body.Match)
		assert.Equal(t, 0.95, body.Confidence)

		svc.AssertExpectations(t)
	})

	t.Run("omitted threshold uses the default", func(t *testing.T) {
		svc := &MockFaceService{}
		svc.On("Verify", mock.Anything, mock.Anything, defaultVerifyThreshold).
			Return(domain.VerificationResult{Match: false, Confidence: 0.4}, nil)

		app := setupApp(svc)
		status, _, _ := doPost(t, app, "/verify",
			[]byte(`{"embedding_a":[1,0],"embedding_b":[0,1]}`))
		assert.Equal(t, 200, status)

		svc.AssertExpectations(t)
	})

	t.Run("explicit zero threshold is honored", func(t *testing.T) {
		svc := &MockFaceService{}
		svc.On("Verify", mock.Anything, mock.Anything, 0.0).
			Return(domain.VerificationResult{Match: true, Confidence: 0.1}, nil)

		app := setupApp(svc)
		status, _, _ := doPost(t, app, "/verify",
			[]byte(`{"embedding_a":[1,0],"embedding_b":[0,1],"threshold":0}`))
		assert.Equal(t, 200, status)

		svc.AssertExpectations(t)
	})

	t.Run("rejects an out-of-range threshold", func(t *testing.T) {
		app := setupApp(&MockFaceService{})
		status, errBody, _ := doPost(t, app, "/verify",
			[]byte(`{"embedding_a":[1,0],"embedding_b":[0,1],"threshold":1.5}`))
		assert.Equal(t, 400, status)
		assert.Equal(t, "Invalid input", errBody.Error)
		assert.Contains(t, errBody.Detail, "threshold")
	})

	t.Run("propagates dimension mismatch", func(t *testing.T) {
		svc := &MockFaceService{}
		svc.On("Verify", mock.Anything, mock.Anything, defaultVerifyThreshold).
			Return(domain.VerificationResult{}, domain.ErrDimensionMismatch.WithDetailf("embedding_a must have %d dimensions, got %d", 128, 100))

		app := setupApp(svc)
		status, errBody, _ := doPost(t, app, "/verify",
			[]byte(`{"embedding_a":[1,0],"embedding_b":[0,1]}`))
		assert.Equal(t, 400, status)
		assert.Equal(t, "Dimension mismatch", errBody.Error)
		assert.Contains(t, errBody.Detail, "got 100")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		app := setupApp(&MockFaceService{})
		status, errBody, _ := doPost(t, app, "/verify", []byte(`not json`))
		assert.Equal(t, 400, status)
		assert.Equal(t, "Invalid input", errBody.Error)
	})
}
