package config

import "time"

// RateLimitConfig drives the Redis token bucket in front of every route.
// Each key starts with Capacity tokens and regains RefillTokens every
// RefillInterval.  KeyStrategy is one of "ip", "route" or "ip_route".
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration // idle buckets expire after this
    KeyStrategy    string
    Prefix         string
    Debug          bool // adds X-RateLimit-Key and logs blocks
}

func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "renotrack:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    cfg.normalize()
    return cfg
}

// normalize clamps values the Lua script cannot work with.  A bucket
// must outlive a few refill intervals or it would reset to full.
func (c *RateLimitConfig) normalize() {
    c.Capacity = max(c.Capacity, 1)
    c.RefillTokens = max(c.RefillTokens, 1)
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    c.TTL = max(c.TTL, 5*c.RefillInterval)
}
