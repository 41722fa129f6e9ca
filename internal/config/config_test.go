package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{
		Port:         getEnv("UNSET_PORT_FOR_TEST", "4000"),
		BodyLimitMB:  getEnvInt("UNSET_LIMIT_FOR_TEST", 20),
		StoreTimeout: getEnvDuration("UNSET_TIMEOUT_FOR_TEST", 5*time.Second),
	}
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 20*1024*1024, cfg.BodyLimitBytes())
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BODY_LIMIT_MB", "2")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("LOG_TO_DB", "true")
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2, cfg.BodyLimitMB)
	assert.Equal(t, 750*time.Millisecond, cfg.StoreTimeout)
	assert.True(t, cfg.LogToDB)
	assert.True(t, cfg.IsProduction())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("BODY_LIMIT_MB", "lots")
	t.Setenv("STORE_TIMEOUT", "-1s")

	assert.Equal(t, 20, getEnvInt("BODY_LIMIT_MB", 20))
	assert.Equal(t, 5*time.Second, getEnvDuration("STORE_TIMEOUT", 5*time.Second))
}
