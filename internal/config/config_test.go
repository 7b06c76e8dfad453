package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "artifacts", cfg.ModelDir)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, 100, cfg.MaxBatchItems)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "yield-predictions", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("MAIZE_HTTP_ADDR", ":9090")
	t.Setenv("MAIZE_LOG_LEVEL", "debug")
	t.Setenv("MAIZE_LOG_FORMAT", "text")
	t.Setenv("MAIZE_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAIZE_MODEL_DIR", "/var/lib/maize/model")
	t.Setenv("MAIZE_CACHE_SIZE", "64")
	t.Setenv("MAIZE_MAX_BATCH_ITEMS", "25")
	t.Setenv("MAIZE_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("MAIZE_KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("MAIZE_KAFKA_TOPIC", "predictions")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/var/lib/maize/model", cfg.ModelDir)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, 25, cfg.MaxBatchItems)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "predictions", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled, "brokers imply publishing")
}

func TestLoad_KafkaEnabledOverride(t *testing.T) {
	t.Setenv("MAIZE_KAFKA_BROKERS", "broker1:9092")
	t.Setenv("MAIZE_KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("kafka enabled without brokers", func(t *testing.T) {
		t.Setenv("MAIZE_KAFKA_ENABLED", "true")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAIZE_KAFKA_BROKERS")
	})

	t.Run("empty model dir", func(t *testing.T) {
		t.Setenv("MAIZE_MODEL_DIR", "")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("negative cache size", func(t *testing.T) {
		t.Setenv("MAIZE_CACHE_SIZE", "-1")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("zero disables cache without error", func(t *testing.T) {
		t.Setenv("MAIZE_CACHE_SIZE", "0")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Zero(t, cfg.CacheSize)
	})

	t.Run("invalid shutdown timeout", func(t *testing.T) {
		t.Setenv("MAIZE_SHUTDOWN_TIMEOUT", "0s")
		_, err := Load()
		require.Error(t, err)
	})
}
