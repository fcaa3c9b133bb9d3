package domain

import (
	"strings"
	"testing"
)

func TestGenerateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		wantErr bool
	}{
		{
			name:    "generate test key",
			env:     EnvTest,
			wantErr: false,
		},
		{
			name:    "generate live key",
			env:     EnvLive,
			wantErr: false,
		},
		{
			name:    "invalid environment",
			env:     "invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plainKey, prefix, err := GenerateAPIKey(tt.env)

			if tt.wantErr {
				if err == nil {
					t.Errorf("GenerateAPIKey() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("GenerateAPIKey() unexpected error: %v", err)
			}

			if !strings.HasPrefix(plainKey, "frbox_"+tt.env+"_") {
				t.Errorf("key %q missing expected prefix", plainKey)
			}

			if !strings.HasPrefix(plainKey, prefix) {
				t.Errorf("prefix %q is not a prefix of %q", prefix, plainKey)
			}

			if !IsValidKeyFormat(plainKey) {
				t.Errorf("generated key %q fails format validation", plainKey)
			}
		})
	}
}

func TestGenerateAPIKey_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key, _, err := GenerateAPIKey(EnvLive)
		if err != nil {
			t.Fatalf("GenerateAPIKey() error: %v", err)
		}
		if seen[key] {
			t.Fatalf("duplicate key generated: %s", key)
		}
		seen[key] = true
	}
}

func TestIsValidKeyFormat(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"wrong product prefix", "acme_live_" + strings.Repeat("a", 32), false},
		{"wrong environment", "frbox_prod_" + strings.Repeat("a", 32), false},
		{"too short random part", "frbox_live_abc", false},
		{"invalid characters", "frbox_live_" + strings.Repeat("!", 32), false},
		{"valid", "frbox_test_" + strings.Repeat("a", 32), true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidKeyFormat(tt.key); got != tt.want {
				t.Errorf("IsValidKeyFormat(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
