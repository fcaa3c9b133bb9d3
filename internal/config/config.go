package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Deployment environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Image processing limits
	MaxImageSize  int `envconfig:"MAX_IMAGE_SIZE" default:"2097152"`
	MaxImageWidth int `envconfig:"MAX_IMAGE_WIDTH" default:"640"`
	MaxFaces      int `envconfig:"MAX_FACES" default:"1"`

	// Embedding settings
	EmbeddingDim        int     `envconfig:"EMBEDDING_DIM" default:"128"`
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.85"`

	// Security
	APIKeys        []string `envconfig:"API_KEYS"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`

	// Rate limiting
	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`

	// Provider
	FaceProvider string `envconfig:"FACE_PROVIDER" default:"mock"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5000"`
}

// Load reads configuration from the environment once at startup.
// Invalid values are fatal: a process with bad limits must not serve traffic.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.APIKeys = trimAll(cfg.APIKeys)
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	return &cfg, nil
}

func (c *Config) validate() error {
	positives := map[string]int{
		"MAX_IMAGE_SIZE":        c.MaxImageSize,
		"MAX_IMAGE_WIDTH":       c.MaxImageWidth,
		"MAX_FACES":             c.MaxFaces,
		"EMBEDDING_DIM":         c.EmbeddingDim,
		"RATE_LIMIT_PER_MINUTE": c.RateLimitPerMinute,
		"PORT":                  c.Port,
	}
	for name, v := range positives {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in [0,1], got %v", c.SimilarityThreshold)
	}
	return nil
}

// APIKeySet returns the configured keys as a lookup set.
// An empty set means authentication is disabled (development mode).
func (c *Config) APIKeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.APIKeys))
	for _, k := range c.APIKeys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
