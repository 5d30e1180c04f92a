package config

import (
	"errors"
	"testing"
	"time"

	coreerrors "github.com/easyops/medcontext-go/pkg/core/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Sources.DBpediaEndpoint != "https://dbpedia.org/sparql" {
		t.Errorf("unexpected DBpedia endpoint: %q", cfg.Sources.DBpediaEndpoint)
	}
	if cfg.Sources.Timeout != 10*time.Second {
		t.Errorf("unexpected source timeout: %v", cfg.Sources.Timeout)
	}
	if cfg.Context.MaxTokens != 4096 {
		t.Errorf("unexpected max tokens: %d", cfg.Context.MaxTokens)
	}
	if cfg.Context.Encoding != "cl100k_base" {
		t.Errorf("unexpected encoding: %q", cfg.Context.Encoding)
	}
	if cfg.LLM.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("unexpected LLM base URL: %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected LLM model: %q", cfg.LLM.Model)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MEDCONTEXT_CONTEXT_MAX_TOKENS", "2048")
	t.Setenv("MEDCONTEXT_SOURCES_GOOGLEKG_API_KEY", "secret-key")
	t.Setenv("MEDCONTEXT_SOURCES_TIMEOUT", "5s")
	t.Setenv("MEDCONTEXT_LLM_MODEL", "custom-model")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Context.MaxTokens != 2048 {
		t.Errorf("max tokens = %d, want 2048", cfg.Context.MaxTokens)
	}
	if cfg.Sources.GoogleKGAPIKey != "secret-key" {
		t.Errorf("api key = %q, want 'secret-key'", cfg.Sources.GoogleKGAPIKey)
	}
	if cfg.Sources.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Sources.Timeout)
	}
	if cfg.LLM.Model != "custom-model" {
		t.Errorf("model = %q, want 'custom-model'", cfg.LLM.Model)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-positive max tokens", func(c *Config) { c.Context.MaxTokens = -1 }},
		{"non-positive timeout", func(c *Config) { c.Sources.Timeout = 0 }},
		{"sample rate above one", func(c *Config) { c.Observability.SampleRate = 1.5 }},
		{"negative sample rate", func(c *Config) { c.Observability.SampleRate = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			if err := cfg.Validate(); !errors.Is(err, coreerrors.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoaderGetters(t *testing.T) {
	t.Setenv("MEDCONTEXT_CONTEXT_MAX_TOKENS", "1234")

	loader := NewLoader()
	if err := loader.LoadEnv("MEDCONTEXT_"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := loader.GetInt("context.max_tokens"); got != 1234 {
		t.Errorf("GetInt = %d, want 1234", got)
	}
	if got := loader.GetString("context.max_tokens"); got != "1234" {
		t.Errorf("GetString = %q, want '1234'", got)
	}
}
