package deepface

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/frbox-labs/frbox/internal/domain"
	"github.com/frbox-labs/frbox/internal/imagecodec"
	"github.com/frbox-labs/frbox/internal/provider"
)

// Provider implements provider.FaceProvider against a remote DeepFace API.
// The API is stateless; both detection and embedding go through /represent.
type Provider struct {
	client *Client
}

var _ provider.FaceProvider = (*Provider)(nil)

// NewProvider creates a DeepFace-backed provider
func NewProvider(config Config) *Provider {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Detector == "" {
		config.Detector = defaults.Detector
	}
	if config.RetryCount == 0 {
		config.RetryCount = defaults.RetryCount
	}

	return &Provider{client: NewClient(config)}
}

// DetectFaces returns the facial regions DeepFace found in the image.
func (p *Provider) DetectFaces(ctx context.Context, img *imagecodec.ImageBuffer) ([]domain.BoundingBox, error) {
	resp, err := p.represent(ctx, img)
	if err != nil {
		return nil, err
	}

	boxes := make([]domain.BoundingBox, 0, len(resp.Results))
	for _, result := range resp.Results {
		boxes = append(boxes, areaToBox(result.FacialArea))
	}
	return boxes, nil
}

// ExtractEmbedding returns the embedding for the face whose region best
// overlaps the requested box. A response without any face data is reported
// as a nil embedding, per the FaceProvider contract.
func (p *Provider) ExtractEmbedding(ctx context.Context, img *imagecodec.ImageBuffer, box domain.BoundingBox) (domain.Embedding, error) {
	if err := box.Validate(img.Width, img.Height); err != nil {
		return nil, err
	}

	resp, err := p.represent(ctx, img)
	if err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}

	best := resp.Results[0]
	bestOverlap := -1
	for _, result := range resp.Results {
		if overlap := overlapArea(areaToBox(result.FacialArea), box); overlap > bestOverlap {
			best = result
			bestOverlap = overlap
		}
	}

	if len(best.Embedding) == 0 {
		return nil, nil
	}
	return domain.Embedding(best.Embedding), nil
}

func (p *Provider) represent(ctx context.Context, img *imagecodec.ImageBuffer) (*RepresentResponse, error) {
	encoded, err := encodeImage(img)
	if err != nil {
		return nil, fmt.Errorf("encode image for deepface: %w", err)
	}

	resp, err := p.client.Represent(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("deepface represent: %w", err)
	}
	return resp, nil
}

// encodeImage serializes the pixel buffer back to base64 PNG for the wire.
func encodeImage(img *imagecodec.ImageBuffer) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToNRGBA()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func areaToBox(area FacialArea) domain.BoundingBox {
	return domain.BoundingBox{
		Top:    area.Y,
		Right:  area.X + area.W,
		Bottom: area.Y + area.H,
		Left:   area.X,
	}
}

// overlapArea returns the intersection area of two boxes in pixels.
func overlapArea(a, b domain.BoundingBox) int {
	w := min(a.Right, b.Right) - max(a.Left, b.Left)
	h := min(a.Bottom, b.Bottom) - max(a.Top, b.Top)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
