package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frbox-labs/frbox/internal/config"
	"github.com/frbox-labs/frbox/internal/domain"
	"github.com/frbox-labs/frbox/internal/imagecodec"
	"github.com/frbox-labs/frbox/internal/provider"
	"github.com/frbox-labs/frbox/internal/similarity"
)

// FaceService composes the image codec, the detection/embedding capability
// and the similarity engine into the two service operations.
type FaceService struct {
	provider      provider.FaceProvider
	maxFaces      int
	maxImageWidth int
	embeddingDim  int
	logger        *slog.Logger
}

func NewFaceService(faceProvider provider.FaceProvider, cfg *config.Config, logger *slog.Logger) *FaceService {
	return &FaceService{
		provider:      faceProvider,
		maxFaces:      cfg.MaxFaces,
		maxImageWidth: cfg.MaxImageWidth,
		embeddingDim:  cfg.EmbeddingDim,
		logger:        logger,
	}
}

// ExtractEmbedding runs the full pipeline: decode, resize, detect, embed.
func (s *FaceService) ExtractEmbedding(ctx context.Context, imageData string) (domain.Embedding, error) {
	start := time.Now()

	img, err := imagecodec.Decode(imageData)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("image decoded",
		slog.Int("width", img.Width),
		slog.Int("height", img.Height),
		slog.String("mime", img.MIME),
	)

	img = imagecodec.Resize(img, s.maxImageWidth)

	box, err := s.Detect(ctx, img)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("face detected",
		slog.Int("top", box.Top),
		slog.Int("right", box.Right),
		slog.Int("bottom", box.Bottom),
		slog.Int("left", box.Left),
	)

	embedding, err := s.Embed(ctx, img, box)
	if err != nil {
		return nil, err
	}

	s.logger.Info("embedding extraction completed",
		slog.Duration("latency", time.Since(start)),
		slog.Int("dim", len(embedding)),
	)

	return embedding, nil
}

// Detect locates exactly one face. Zero candidates or more than maxFaces
// candidates are client errors; the service never guesses which face to use.
func (s *FaceService) Detect(ctx context.Context, img *imagecodec.ImageBuffer) (domain.BoundingBox, error) {
	boxes, err := s.provider.DetectFaces(ctx, img)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return domain.BoundingBox{}, err
		}
		return domain.BoundingBox{}, domain.ErrInternal.WithError(fmt.Errorf("detect faces: %w", err))
	}

	if len(boxes) == 0 {
		return domain.BoundingBox{}, domain.ErrNoFaceDetected
	}
	if len(boxes) > s.maxFaces {
		return domain.BoundingBox{}, domain.ErrMultipleFaces.WithDetailf(
			"Multiple faces detected (%d). Only one face allowed.", len(boxes))
	}

	return boxes[0], nil
}

// Embed delegates to the capability. When the capability yields no encoding
// for a valid box, a zero vector is returned and a warning logged instead of
// failing the request.
func (s *FaceService) Embed(ctx context.Context, img *imagecodec.ImageBuffer, box domain.BoundingBox) (domain.Embedding, error) {
	embedding, err := s.provider.ExtractEmbedding(ctx, img, box)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, domain.ErrInternal.WithError(fmt.Errorf("extract embedding: %w", err))
	}

	if len(embedding) == 0 {
		s.logger.Warn("capability produced no embedding for a valid bounding box, returning zero vector",
			slog.Int("dim", s.embeddingDim),
		)
		return make(domain.Embedding, s.embeddingDim), nil
	}

	return embedding, nil
}

// Verify checks both embeddings against the configured dimensionality and
// delegates the match decision to the similarity engine.
func (s *FaceService) Verify(a, b domain.Embedding, threshold float64) (domain.VerificationResult, error) {
	if len(a) != s.embeddingDim {
		return domain.VerificationResult{}, domain.ErrDimensionMismatch.WithDetailf(
			"embedding_a must have %d dimensions, got %d", s.embeddingDim, len(a))
	}
	if len(b) != s.embeddingDim {
		return domain.VerificationResult{}, domain.ErrDimensionMismatch.WithDetailf(
			"embedding_b must have %d dimensions, got %d", s.embeddingDim, len(b))
	}

	return similarity.Verify(a, b, threshold), nil
}
