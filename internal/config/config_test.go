package config

import (
    "testing"
    "time"

    "github.com/labstack/gommon/log"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
    t.Setenv("DB_NAME", "renovation_trackerdb")
    t.Setenv("APP_ENV", "")
    t.Setenv("APP_PORT", "")
    t.Setenv("LOG_LEVEL", "")

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, "dev", cfg.Env)
    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, "localhost", cfg.DBHost)
    assert.Equal(t, "3306", cfg.DBPort)
    assert.Equal(t, log.INFO, cfg.LogLevel)
    assert.False(t, cfg.IsProd())
}

func TestLoadRequiresDatabase(t *testing.T) {
    t.Setenv("DB_NAME", "")
    t.Setenv("DATABASE_DSN", "")
    t.Setenv("LOG_LEVEL", "")
    _, err := Load()
    assert.Error(t, err)

    t.Setenv("DATABASE_DSN", "root@tcp(localhost:3306)/x")
    _, err = Load()
    assert.NoError(t, err)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
    t.Setenv("DB_NAME", "x")
    t.Setenv("LOG_LEVEL", "chatty")
    _, err := Load()
    assert.Error(t, err)
}

func TestIsProd(t *testing.T) {
    assert.True(t, Config{Env: "prod"}.IsProd())
    assert.True(t, Config{Env: "PRODUCTION"}.IsProd())
    assert.False(t, Config{Env: "staging"}.IsProd())
}

func TestRateLimitConfigClamps(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, time.Minute, cfg.RefillInterval)
    assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestCacheConfigMethods(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head ,")
    cfg := LoadCacheConfig()
    assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
}

func TestQueueConfigURLFallback(t *testing.T) {
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
    assert.Equal(t, "amqp://u:p@broker:5672/", LoadQueueConfig().URL)
}

func TestCacheConfigNeverCachesWrites(t *testing.T) {
    t.Setenv("CACHE_METHODS", "GET,POST,delete")
    cfg := LoadCacheConfig()
    assert.Equal(t, map[string]bool{"GET": true}, cfg.Methods)
}

func TestEnvHelpersFallBack(t *testing.T) {
    t.Setenv("X_BOOL", "maybe")
    t.Setenv("X_INT", "ten")
    t.Setenv("X_DUR", " 2m ")
    assert.True(t, envBool("X_BOOL", true))
    assert.Equal(t, 7, envInt("X_INT", 7))
    assert.Equal(t, 2*time.Minute, envDur("X_DUR", time.Second))

    t.Setenv("X_BOOL", "Off")
    assert.False(t, envBool("X_BOOL", true))
}
