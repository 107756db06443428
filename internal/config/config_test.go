package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("TM_QDRANT_PORT", "7334")
	os.Setenv("TM_LOG_LEVEL", "debug")
	os.Setenv("TM_OPENAI_API_KEY", "sk-test")
	defer func() {
		os.Unsetenv("TM_QDRANT_PORT")
		os.Unsetenv("TM_LOG_LEVEL")
		os.Unsetenv("TM_OPENAI_API_KEY")
	}()

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Qdrant.Port != 7334 {
		t.Errorf("Qdrant.Port = %d, want 7334", cfg.Qdrant.Port)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}

	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("OpenAI.APIKey = %s, want sk-test", cfg.OpenAI.APIKey)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
qdrant:
  host: "qdrant.internal"
  port: 6334
  collection: shl_assessments
openai:
  embed_model: text-embedding-3-small
  embed_dim: 768
log:
  level: warn
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Qdrant.Host != "qdrant.internal" {
		t.Errorf("Qdrant.Host = %s, want qdrant.internal", cfg.Qdrant.Host)
	}

	if cfg.Qdrant.Collection != "shl_assessments" {
		t.Errorf("Qdrant.Collection = %s, want shl_assessments", cfg.Qdrant.Collection)
	}

	if cfg.OpenAI.EmbedModel != "text-embedding-3-small" {
		t.Errorf("OpenAI.EmbedModel = %s, want text-embedding-3-small", cfg.OpenAI.EmbedModel)
	}

	if cfg.OpenAI.EmbedDim != 768 {
		t.Errorf("OpenAI.EmbedDim = %d, want 768", cfg.OpenAI.EmbedDim)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Qdrant.CollectionPrefix != "tm_" {
		t.Errorf("CollectionPrefix = %s, want tm_", cfg.Qdrant.CollectionPrefix)
	}
	if cfg.OpenAI.EmbedDim != 1536 {
		t.Errorf("EmbedDim = %d, want 1536", cfg.OpenAI.EmbedDim)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
	}
	if cfg.Bus.Type != "memory" {
		t.Errorf("Bus.Type = %s, want memory", cfg.Bus.Type)
	}
	if cfg.Recommend.DefaultLimit != 10 {
		t.Errorf("DefaultLimit = %d, want 10", cfg.Recommend.DefaultLimit)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid qdrant port",
			mutate:  func(c *Config) { c.Qdrant.Port = 0 },
			wantErr: "qdrant port",
		},
		{
			name:    "empty collection",
			mutate:  func(c *Config) { c.Qdrant.Collection = "" },
			wantErr: "collection",
		},
		{
			name:    "zero embed dim",
			mutate:  func(c *Config) { c.OpenAI.EmbedDim = 0 },
			wantErr: "embed_dim",
		},
		{
			name:    "bad cache type",
			mutate:  func(c *Config) { c.Cache.Type = "disk" },
			wantErr: "cache type",
		},
		{
			name:    "bad bus type",
			mutate:  func(c *Config) { c.Bus.Type = "nats" },
			wantErr: "bus type",
		},
		{
			name:    "zero ingest workers",
			mutate:  func(c *Config) { c.Ingest.Workers = 0 },
			wantErr: "workers",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidationOK(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v, want nil", err)
	}
}
