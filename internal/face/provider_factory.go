package face

import (
	"fmt"

	"github.com/frbox-labs/frbox/internal/config"
	"github.com/frbox-labs/frbox/internal/provider"
	"github.com/frbox-labs/frbox/internal/provider/deepface"
	"github.com/frbox-labs/frbox/internal/provider/mock"
)

// ProviderType defines supported face recognition provider types
type ProviderType string

const (
	// ProviderTypeMock is the deterministic in-process provider (dev/test)
	ProviderTypeMock ProviderType = "mock"
	// ProviderTypeDeepFace is the remote DeepFace provider
	ProviderTypeDeepFace ProviderType = "deepface"
)

// NewFaceProvider creates a FaceProvider instance based on configuration
//
// Environment variables:
//   - FACE_PROVIDER: "mock" or "deepface" (default: "mock")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5000")
func NewFaceProvider(cfg *config.Config) (provider.FaceProvider, error) {
	switch ProviderType(cfg.FaceProvider) {
	case ProviderTypeDeepFace:
		return deepface.NewProvider(deepface.Config{BaseURL: cfg.DeepFaceURL}), nil

	case ProviderTypeMock, "":
		p := mock.New()
		p.EmbeddingDim = cfg.EmbeddingDim
		return p, nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.FaceProvider, ProviderTypeMock, ProviderTypeDeepFace)
	}
}
