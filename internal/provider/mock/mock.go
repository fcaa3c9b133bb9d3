package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/frbox-labs/frbox/internal/domain"
	"github.com/frbox-labs/frbox/internal/imagecodec"
	"github.com/frbox-labs/frbox/internal/provider"
)

const defaultEmbeddingDim = 128

// Provider is a deterministic FaceProvider for development and tests.
// It reports a configurable number of faces and derives embeddings from a
// hash of the pixel data, so identical images always produce identical
// embeddings.
type Provider struct {
	// Faces is how many face candidates DetectFaces reports.
	Faces int
	// EmbeddingDim is the length of generated embeddings.
	EmbeddingDim int
	// FailEmbedding simulates the capability producing no encoding
	// for a valid bounding box.
	FailEmbedding bool
}

// New returns a provider reporting one face with 128-dim embeddings.
func New() *Provider {
	return &Provider{Faces: 1, EmbeddingDim: defaultEmbeddingDim}
}

var _ provider.FaceProvider = (*Provider)(nil)

// DetectFaces reports p.Faces candidate regions. The first covers the
// central 80% of the image; further candidates are stacked fractions of it.
func (p *Provider) DetectFaces(ctx context.Context, img *imagecodec.ImageBuffer) ([]domain.BoundingBox, error) {
	if p.Faces <= 0 {
		return nil, nil
	}

	boxes := make([]domain.BoundingBox, 0, p.Faces)
	for i := 0; i < p.Faces; i++ {
		shrink := i + 1
		boxes = append(boxes, domain.BoundingBox{
			Top:    img.Height / (10 * shrink),
			Right:  img.Width - img.Width/(10*shrink),
			Bottom: img.Height - img.Height/(10*shrink),
			Left:   img.Width / (10 * shrink),
		})
	}
	return boxes, nil
}

// ExtractEmbedding returns a unit-length embedding derived from the pixel
// hash, so the same image region always encodes to the same vector.
func (p *Provider) ExtractEmbedding(ctx context.Context, img *imagecodec.ImageBuffer, box domain.BoundingBox) (domain.Embedding, error) {
	if err := box.Validate(img.Width, img.Height); err != nil {
		return nil, err
	}

	if p.FailEmbedding {
		return nil, nil
	}

	dim := p.EmbeddingDim
	if dim <= 0 {
		dim = defaultEmbeddingDim
	}

	hash := sha256.Sum256(img.Pixels)
	embedding := make(domain.Embedding, dim)
	for i := 0; i < dim; i++ {
		embedding[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	var norm float64
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding, nil
}
