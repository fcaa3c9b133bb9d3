package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/frbox-labs/frbox/internal/domain"
)

const (
	// APIKeyHeader is the header carrying the client's API key
	APIKeyHeader = "X-API-Key"
	// LocalClientID is the key to retrieve the rate-limit client id from context
	LocalClientID = "client_id"

	clientIDKeyChars = 8
)

// authExemptPaths bypass authentication entirely: health probes and docs.
var authExemptPaths = []string{"/health", "/ready", "/swagger"}

// Auth validates the X-API-Key header against the configured key set.
// An empty key set disables the stage, an explicit development-mode bypass.
// On success the request is annotated with a truncated key identifier used
// downstream for rate-limit keying.
func Auth(keys map[string]struct{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Preflight requests carry no credentials.
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		if isAuthExempt(c.Path()) {
			return c.Next()
		}

		if len(keys) == 0 {
			return c.Next()
		}

		apiKey := strings.TrimSpace(c.Get(APIKeyHeader))
		if apiKey == "" {
			return domain.ErrUnauthorized
		}

		if _, ok := keys[apiKey]; !ok {
			return domain.ErrForbidden
		}

		c.Locals(LocalClientID, truncateKey(apiKey))

		return c.Next()
	}
}

func isAuthExempt(path string) bool {
	for _, exempt := range authExemptPaths {
		if path == exempt || strings.HasPrefix(path, exempt+"/") {
			return true
		}
	}
	return false
}

// truncateKey derives a loggable client identifier from an API key.
// The full key never leaves the auth stage.
func truncateKey(apiKey string) string {
	if len(apiKey) <= clientIDKeyChars {
		return apiKey
	}
	return apiKey[:clientIDKeyChars]
}

// ClientID returns the identifier for rate-limit keying: the truncated API
// key when the request presented one, the source address otherwise.
func ClientID(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalClientID).(string); ok && id != "" {
		return id
	}
	if apiKey := strings.TrimSpace(c.Get(APIKeyHeader)); apiKey != "" {
		return truncateKey(apiKey)
	}
	return c.IP()
}
