package config

import (
    "context"
    "crypto/tls"
    "fmt"
    "os"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server shared by the response cache and
// the rate limiter.
type RedisConfig struct {
    Disabled bool
    Addr     string
    Password string
    DB       int
    TLS      bool
}

// LoadRedisConfig reads REDIS_HOST and REDIS_PORT, falling back to the
// REDIS_ADDR shorthand, plus REDIS_PASSWORD, REDIS_DB, REDIS_TLS and
// REDIS_DISABLED.
func LoadRedisConfig() RedisConfig {
    addr := envStr("REDIS_ADDR", "localhost:6379")
    host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")
    if host != "" && port != "" {
        addr = host + ":" + port
    }
    return RedisConfig{
        Disabled: envBool("REDIS_DISABLED", false),
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       envInt("REDIS_DB", 0),
        TLS:      envBool("REDIS_TLS", false),
    }
}

// NewRedisClient connects and pings.  It returns (nil, nil) when Redis is
// disabled; callers treat a nil client as "cache and rate limit off".
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
    if cfg.Disabled {
        return nil, nil
    }
    opts := &redis.Options{
        Addr:     cfg.Addr,
        Password: cfg.Password,
        DB:       cfg.DB,
    }
    if cfg.TLS {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(opts)

    pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := client.Ping(pingCtx).Err(); err != nil {
        _ = client.Close()
        return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
    }
    return client, nil
}
