// Package config loads service settings from environment variables layered
// over defaults.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variable names, so MAIZE_HTTP_ADDR
// sets http_addr.
const envPrefix = "MAIZE_"

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// ModelDir is the directory holding the trained model artifacts.
	ModelDir string `koanf:"model_dir"`

	// CacheSize bounds the prediction LRU cache; 0 disables caching.
	CacheSize int `koanf:"cache_size"`

	// MaxBatchItems caps /predict/batch request size.
	MaxBatchItems int `koanf:"max_batch_items"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Kafka prediction-event publishing. Enabled defaults to true when
	// brokers are configured; MAIZE_KAFKA_ENABLED overrides either way.
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
	KafkaEnabled bool     `koanf:"kafka_enabled"`
}

func defaultConfig() Config {
	return Config{
		HTTPAddr:           ":8000",
		LogLevel:           "info",
		LogFormat:          "json",
		ShutdownTimeout:    10 * time.Second,
		ModelDir:           "artifacts",
		CacheSize:          1024,
		MaxBatchItems:      100,
		CORSAllowedOrigins: []string{"*"},
		KafkaTopic:         "yield-predictions",
	}
}

// listKeys are config paths whose env values are comma-separated lists.
var listKeys = map[string]bool{
	"cors_allowed_origins": true,
	"kafka_brokers":        true,
}

// Load reads configuration from the environment, applying defaults where
// unset, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, err
	}

	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Brokers imply publishing unless explicitly overridden.
	if !k.Exists("kafka_enabled") {
		cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ModelDir == "" {
		return errors.New("MAIZE_MODEL_DIR is required")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("MAIZE_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.CacheSize < 0 {
		return errors.New("MAIZE_CACHE_SIZE must not be negative")
	}
	if c.MaxBatchItems <= 0 {
		return errors.New("MAIZE_MAX_BATCH_ITEMS must be positive")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("MAIZE_KAFKA_ENABLED is true but MAIZE_KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaTopic == "" {
		return errors.New("MAIZE_KAFKA_ENABLED is true but MAIZE_KAFKA_TOPIC is empty")
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
