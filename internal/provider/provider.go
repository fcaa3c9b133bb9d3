package provider

import (
	"context"

	"github.com/frbox-labs/frbox/internal/domain"
	"github.com/frbox-labs/frbox/internal/imagecodec"
)

// FaceProvider is the external face-detection and embedding capability.
// Implementations must be safe for concurrent use.
type FaceProvider interface {
	// DetectFaces returns the bounding boxes of every face candidate found
	// in the image. Zero candidates is a valid result, not an error.
	DetectFaces(ctx context.Context, img *imagecodec.ImageBuffer) ([]domain.BoundingBox, error)

	// ExtractEmbedding produces the feature vector for the face inside box.
	// A nil embedding with a nil error means the capability produced no
	// encoding for a valid box; the caller decides how to degrade.
	ExtractEmbedding(ctx context.Context, img *imagecodec.ImageBuffer, box domain.BoundingBox) (domain.Embedding, error)
}
