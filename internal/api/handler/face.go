package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/frbox-labs/frbox/internal/domain"
)

// defaultVerifyThreshold applies when the /verify request omits a threshold.
const defaultVerifyThreshold = 0.90

// FaceService interface for the service
type FaceService interface {
	ExtractEmbedding(ctx context.Context, imageData string) (domain.Embedding, error)
	Verify(a, b domain.Embedding, threshold float64) (domain.VerificationResult, error)
}

// FaceHandler handles the embedding and verification endpoints
type FaceHandler struct {
	service FaceService
	logger  *slog.Logger
}

// NewFaceHandler creates a new FaceHandler instance
func NewFaceHandler(service FaceService, logger *slog.Logger) *FaceHandler {
	return &FaceHandler{
		service: service,
		logger:  logger,
	}
}

// EmbeddingRequest request for the embedding endpoint
type EmbeddingRequest struct {
	ImageData string `json:"image_data"`
}

// EmbeddingResponse response for the embedding endpoint
type EmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
	Dim       int       `json:"dim"`
}

// VerifyRequest request for the verify endpoint
type VerifyRequest struct {
	EmbeddingA []float64 `json:"embedding_a"`
	EmbeddingB []float64 `json:"embedding_b"`
	Threshold  *float64  `json:"threshold"`
}

// VerifyResponse response for the verify endpoint
type VerifyResponse struct {
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
}

// Embedding POST /embedding - extract a face embedding from an image
func (h *FaceHandler) Embedding(c *fiber.Ctx) error {
	var req EmbeddingRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidInput.WithDetail("request body must be JSON with an image_data field").WithError(err)
	}

	if strings.TrimSpace(req.ImageData) == "" {
		return domain.ErrInvalidInput.WithDetail("image_data is empty")
	}
	if !isTransportCharset(req.ImageData) {
		return domain.ErrInvalidInput.WithDetail("image_data contains characters outside the transport encoding")
	}

	start := time.Now()
	embedding, err := h.service.ExtractEmbedding(c.Context(), req.ImageData)
	if err != nil {
		return err
	}

	h.logger.Debug("embedding request served",
		slog.Duration("latency", time.Since(start)),
	)

	return c.JSON(EmbeddingResponse{
		Embedding: embedding,
		Dim:       len(embedding),
	})
}

// Verify POST /verify - compare two embeddings
func (h *FaceHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidInput.WithDetail("request body must be JSON with embedding_a and embedding_b fields").WithError(err)
	}

	threshold := defaultVerifyThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 || threshold > 1 {
		return domain.ErrInvalidInput.WithDetailf("threshold must be between 0 and 1, got %v", threshold)
	}

	result, err := h.service.Verify(req.EmbeddingA, req.EmbeddingB, threshold)
	if err != nil {
		return err
	}

	h.logger.Debug("verification completed",
		slog.Bool("match", result.Match),
		slog.Float64("confidence", result.Confidence),
	)

	return c.JSON(VerifyResponse{
		Match:      result.Match,
		Confidence: result.Confidence,
	})
}

// isTransportCharset reports whether s could plausibly be base64 or a data
// URL: printable ASCII plus whitespace. Full validation belongs to the codec.
func isTransportCharset(s string) bool {
	for _, r := range s {
		switch {
		case r >= '!' && r <= '~':
		case r == ' ', r == '\t', r == '\n', r == '\r':
		default:
			return false
		}
	}
	return true
}
