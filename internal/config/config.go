// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Qdrant configuration
	Qdrant QdrantConfig `yaml:"qdrant"`

	// OpenAI configuration (embeddings and query rewriting)
	OpenAI OpenAIConfig `yaml:"openai"`

	// Embedding cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Event bus configuration
	Bus BusConfig `yaml:"bus"`

	// Ingest configuration
	Ingest IngestConfig `yaml:"ingest"`

	// Recommendation configuration
	Recommend RecommendConfig `yaml:"recommend"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// QdrantConfig holds Qdrant connection settings.
type QdrantConfig struct {
	Host             string        `envconfig:"TM_QDRANT_HOST" yaml:"host"`
	Port             int           `envconfig:"TM_QDRANT_PORT" yaml:"port"`
	APIKey           string        `envconfig:"TM_QDRANT_API_KEY" yaml:"api_key"`
	UseTLS           bool          `envconfig:"TM_QDRANT_USE_TLS" yaml:"use_tls"`
	Collection       string        `envconfig:"TM_QDRANT_COLLECTION" yaml:"collection"`
	CollectionPrefix string        `envconfig:"TM_QDRANT_COLLECTION_PREFIX" yaml:"collection_prefix"`
	Timeout          time.Duration `envconfig:"TM_QDRANT_TIMEOUT" yaml:"timeout"`
}

// OpenAIConfig holds settings for the embedding and completion APIs.
type OpenAIConfig struct {
	APIKey            string  `envconfig:"TM_OPENAI_API_KEY" yaml:"api_key"`
	BaseURL           string  `envconfig:"TM_OPENAI_BASE_URL" yaml:"base_url"`
	EmbedModel        string  `envconfig:"TM_EMBED_MODEL" yaml:"embed_model"`
	ChatModel         string  `envconfig:"TM_CHAT_MODEL" yaml:"chat_model"`
	EmbedDim          int     `envconfig:"TM_EMBED_DIM" yaml:"embed_dim"`
	EmbedBatchSize    int     `envconfig:"TM_EMBED_BATCH_SIZE" yaml:"embed_batch_size"`
	RequestsPerSecond float64 `envconfig:"TM_OPENAI_RPS" yaml:"requests_per_second"`
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	Type     string `envconfig:"TM_CACHE_TYPE" yaml:"type"`
	Size     int    `envconfig:"TM_CACHE_SIZE" yaml:"size"`
	TTL      int    `envconfig:"TM_CACHE_TTL" yaml:"ttl"` // seconds, 0 = no expiry
	RedisURL string `envconfig:"TM_REDIS_URL" yaml:"redis_url"`
}

// BusConfig holds event bus settings.
type BusConfig struct {
	Type         string `envconfig:"TM_BUS_TYPE" yaml:"type"`
	KafkaBrokers string `envconfig:"TM_KAFKA_BROKERS" yaml:"kafka_brokers"`
	KafkaGroup   string `envconfig:"TM_KAFKA_GROUP" yaml:"kafka_group"`
}

// IngestConfig holds catalog ingest settings.
type IngestConfig struct {
	Workers   int `envconfig:"TM_INGEST_WORKERS" yaml:"workers"`
	BatchSize int `envconfig:"TM_INGEST_BATCH_SIZE" yaml:"batch_size"`
}

// RecommendConfig holds recommendation settings.
type RecommendConfig struct {
	DefaultLimit  int  `envconfig:"TM_DEFAULT_LIMIT" yaml:"default_limit"`
	EnableRewrite bool `envconfig:"TM_ENABLE_REWRITE" yaml:"enable_rewrite"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"TM_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"TM_LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Qdrant = QdrantConfig{
		Host:             "localhost",
		Port:             6334,
		Collection:       "assessments",
		CollectionPrefix: "tm_",
		Timeout:          30 * time.Second,
	}

	cfg.OpenAI = OpenAIConfig{
		EmbedModel:        "text-embedding-ada-002",
		ChatModel:         "gpt-3.5-turbo",
		EmbedDim:          1536,
		EmbedBatchSize:    100,
		RequestsPerSecond: 2,
	}

	cfg.Cache = CacheConfig{
		Type:     "memory",
		Size:     10000,
		TTL:      0,
		RedisURL: "redis://localhost:6379",
	}

	cfg.Bus = BusConfig{
		Type: "memory",
	}

	cfg.Ingest = IngestConfig{
		Workers:   4,
		BatchSize: 100,
	}

	cfg.Recommend = RecommendConfig{
		DefaultLimit:  10,
		EnableRewrite: false,
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Qdrant.Port < 1 || c.Qdrant.Port > 65535 {
		errs = append(errs, "qdrant port must be between 1 and 65535")
	}

	if c.Qdrant.Collection == "" {
		errs = append(errs, "qdrant collection must not be empty")
	}

	if c.OpenAI.EmbedDim < 1 {
		errs = append(errs, "embed_dim must be positive")
	}

	if c.OpenAI.EmbedBatchSize < 1 {
		errs = append(errs, "embed_batch_size must be positive")
	}

	if c.OpenAI.RequestsPerSecond <= 0 {
		errs = append(errs, "requests_per_second must be positive")
	}

	validCacheTypes := map[string]bool{"memory": true, "redis": true}
	if !validCacheTypes[c.Cache.Type] {
		errs = append(errs, fmt.Sprintf("invalid cache type: %s (must be memory or redis)", c.Cache.Type))
	}

	validBusTypes := map[string]bool{"memory": true, "kafka": true}
	if !validBusTypes[c.Bus.Type] {
		errs = append(errs, fmt.Sprintf("invalid bus type: %s (must be memory or kafka)", c.Bus.Type))
	}

	if c.Ingest.Workers < 1 {
		errs = append(errs, "ingest workers must be positive")
	}

	if c.Ingest.BatchSize < 1 {
		errs = append(errs, "ingest batch_size must be positive")
	}

	if c.Recommend.DefaultLimit < 1 {
		errs = append(errs, "default_limit must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
