package domain

import "fmt"

// BoundingBox marks a detected face's extent inside an image, using the
// (top, right, bottom, left) pixel-offset convention.
type BoundingBox struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Validate checks the box invariants against the image dimensions.
func (b BoundingBox) Validate(width, height int) error {
	if b.Top >= b.Bottom {
		return fmt.Errorf("bounding box: top (%d) must be above bottom (%d)", b.Top, b.Bottom)
	}
	if b.Left >= b.Right {
		return fmt.Errorf("bounding box: left (%d) must be left of right (%d)", b.Left, b.Right)
	}
	if b.Top < 0 || b.Left < 0 || b.Bottom > height || b.Right > width {
		return fmt.Errorf("bounding box %+v outside image bounds %dx%d", b, width, height)
	}
	return nil
}

// Width returns the horizontal extent of the box in pixels.
func (b BoundingBox) Width() int {
	return b.Right - b.Left
}

// Height returns the vertical extent of the box in pixels.
func (b BoundingBox) Height() int {
	return b.Bottom - b.Top
}

// Embedding is a fixed-length face feature vector. The service never stores
// embeddings; each one lives only for the request that produced it.
type Embedding []float64

// VerificationResult is the outcome of comparing two embeddings.
// Confidence is the raw cosine similarity.
type VerificationResult struct {
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
}
