package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Environment constants
const (
	EnvTest = "test"
	EnvLive = "live"
)

const (
	apiKeyLength = 32
	base62Chars  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var validEnvironments = map[string]bool{
	EnvTest: true,
	EnvLive: true,
}

// GenerateAPIKey creates a new random key for the API_KEYS list.
// Returns (plainKey, displayPrefix).
// Format: frbox_<env>_<random32>, e.g. frbox_live_A1b2...
func GenerateAPIKey(env string) (string, string, error) {
	if !validEnvironments[env] {
		return "", "", errors.New("invalid environment: must be 'test' or 'live'")
	}

	randomPart, err := generateSecureRandomString(apiKeyLength)
	if err != nil {
		return "", "", err
	}

	plainKey := "frbox_" + env + "_" + randomPart

	// Display prefix: enough to identify the key, never enough to use it.
	return plainKey, plainKey[:14], nil
}

// IsValidKeyFormat reports whether key looks like a generated frbox key.
func IsValidKeyFormat(key string) bool {
	parts := strings.SplitN(key, "_", 3)
	if len(parts) != 3 || parts[0] != "frbox" {
		return false
	}
	if !validEnvironments[parts[1]] {
		return false
	}
	if len(parts[2]) != apiKeyLength {
		return false
	}
	for _, char := range parts[2] {
		if !strings.ContainsRune(base62Chars, char) {
			return false
		}
	}
	return true
}

func generateSecureRandomString(length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(base62Chars)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = base62Chars[n.Int64()]
	}
	return string(result), nil
}
