package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Listen != ":8080" {
		t.Errorf("expected default listen, got %q", cfg.Listen)
	}
	if cfg.Suggest.Debounce != 300*time.Millisecond {
		t.Errorf("expected 300ms debounce, got %v", cfg.Suggest.Debounce)
	}
	if cfg.Suggest.NearbyRadius != 100 {
		t.Errorf("expected radius 100, got %d", cfg.Suggest.NearbyRadius)
	}
	if cfg.Calendar.LowestPercentile != 0.3 {
		t.Errorf("expected percentile 0.3, got %v", cfg.Calendar.LowestPercentile)
	}
	if !cfg.UseMock() {
		t.Error("expected mock client without an api key")
	}
}

func TestLoadPartialFile(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
listen: "127.0.0.1:9090"
upstream:
  base_url: "http://localhost:4000/api"
  currency: eur
suggest:
  debounce: 50ms
calendar:
  lowest_percentile: 1.5
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"listen", cfg.Listen, "127.0.0.1:9090"},
		{"base url gets trailing slash", cfg.Upstream.BaseURL, "http://localhost:4000/api/"},
		{"currency upper-cased", cfg.Upstream.Currency, "EUR"},
		{"debounce", cfg.Suggest.Debounce, 50 * time.Millisecond},
		{"out of range percentile reset", cfg.Calendar.LowestPercentile, 0.3},
		{"host defaulted", cfg.Upstream.Host, "sky-scrapper.p.rapidapi.com"},
		{"sweep defaulted", cfg.Sessions.Sweep, "@every 1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestLoadEnvOverridesKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream.APIKey != "secret" {
		t.Errorf("expected key from env, got %q", cfg.Upstream.APIKey)
	}
	if cfg.UseMock() {
		t.Error("expected real client when a key is set")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
