package config

import (
    "strings"
    "time"
)

// CacheConfig controls the Redis response cache on the resource routes.
// Only responses to Methods are stored; any successful write through the
// API drops every key under Prefix.  Bodies larger than MaxBodyBytes are
// served but not stored (0 means no limit).
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string // route_query (default), route, method_route, method_route_query; all key on the request path
    Prefix       string
    MaxBodyBytes int
}

func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "renotrack:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return cfg
}

// parseMethods reads a comma separated method list.  Write methods are
// ignored since caching them would skip invalidation.
func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        switch p = strings.ToUpper(strings.TrimSpace(p)); p {
        case "", "POST", "PUT", "PATCH", "DELETE":
        default:
            m[p] = true
        }
    }
    return m
}
