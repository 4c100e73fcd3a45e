package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/candidate-assessor/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"localhost:19092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.ReplyCacheEnabled)
	assert.Equal(t, time.Hour, cfg.ReplyCacheTTL)
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.AIEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9999")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REPLY_CACHE_ENABLED", "true")
	t.Setenv("OPENAI_API_KEY", "sk-live")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.ReplyCacheEnabled)
	assert.True(t, cfg.AIEnabled())
}

func TestGetAIBackoffConfig_TestEnvShortcuts(t *testing.T) {
	cfg := config.Config{AppEnv: "test"}
	maxElapsed, initial, maxInterval, mult := cfg.GetAIBackoffConfig()
	assert.Equal(t, 5*time.Second, maxElapsed)
	assert.Equal(t, 100*time.Millisecond, initial)
	assert.Equal(t, time.Second, maxInterval)
	assert.Equal(t, 2.0, mult)
}

func TestGetAIBackoffConfig_PassthroughOutsideTest(t *testing.T) {
	cfg := config.Config{
		AppEnv:                   "prod",
		AIBackoffMaxElapsedTime:  90 * time.Second,
		AIBackoffInitialInterval: 3 * time.Second,
		AIBackoffMaxInterval:     30 * time.Second,
		AIBackoffMultiplier:      1.7,
	}
	maxElapsed, initial, maxInterval, mult := cfg.GetAIBackoffConfig()
	assert.Equal(t, 90*time.Second, maxElapsed)
	assert.Equal(t, 3*time.Second, initial)
	assert.Equal(t, 30*time.Second, maxInterval)
	assert.Equal(t, 1.7, mult)
}
