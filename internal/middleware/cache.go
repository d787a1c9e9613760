package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/renotrack/renovation-tracker/internal/config"
)

// captureWriter tees the response body (up to limit) while forwarding it.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
    switch {
    case cw.limit <= 0:
        cw.buf.Write(b)
    case cw.size < cw.limit:
        remain := cw.limit - cw.size
        if int64(len(b)) <= remain {
            cw.buf.Write(b)
        } else {
            cw.buf.Write(b[:remain])
        }
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// truncated reports whether the body outgrew the capture limit.
func (cw *captureWriter) truncated() bool { return cw.limit > 0 && cw.size > cw.limit }

// cacheKeyFrom builds a stable key under cfg.Prefix.  Every strategy
// keys on the request path, never the route template, so /listings/1 and
// /listings/2 cannot share an entry.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", r.URL.Path}
    case "method_route":
        parts = []string{"method", r.Method, "route", r.URL.Path}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", r.URL.Path, "q", r.URL.RawQuery}
    default: // "route_query"
        parts = []string{"route", r.URL.Path, "q", r.URL.RawQuery}
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// outerHeader reports headers written by middleware that runs before the
// cache (request id, CORS, rate limit).  They belong to the live request
// and are neither stored nor replayed.
func outerHeader(k string) bool {
    k = http.CanonicalHeaderKey(k)
    switch {
    case k == echo.HeaderXRequestID, k == echo.HeaderVary, k == echo.HeaderContentLength, k == "X-Cache":
        return true
    case strings.HasPrefix(k, "Access-Control-"), strings.HasPrefix(k, "X-Ratelimit-"), k == "Retry-After":
        return true
    }
    return false
}

// cachedResponse is stored as [4 bytes status][4 bytes headerLen][headerJSON][body].
type cachedResponse struct {
    status int
    header http.Header
    body   []byte
}

func (cr cachedResponse) encode() ([]byte, error) {
    hdrJSON, err := json.Marshal(cr.header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(cr.body))
    binary.BigEndian.PutUint32(out[0:4], uint32(cr.status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:], hdrJSON)
    copy(out[8+len(hdrJSON):], cr.body)
    return out, nil
}

func decodeCached(bs []byte) (cachedResponse, bool) {
    if len(bs) < 8 {
        return cachedResponse{}, false
    }
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return cachedResponse{}, false
    }
    cr := cachedResponse{status: int(binary.BigEndian.Uint32(bs[0:4])), header: make(http.Header)}
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &cr.header); err != nil {
            return cachedResponse{}, false
        }
    }
    cr.body = bs[8+hlen:]
    return cr, true
}

// NewRedisCache serves repeated reads from Redis and drops every cached
// entry after a successful write, so a read that follows a write through
// this API never sees the pre-write state.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }
    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            method := strings.ToUpper(c.Request().Method)
            if !cfg.Methods[method] {
                if !isWrite(method) {
                    return next(c)
                }
                err := next(c)
                if err == nil && c.Response().Status < http.StatusBadRequest {
                    if n, ierr := invalidate(c.Request().Context(), rdb, cfg.Prefix); ierr != nil {
                        c.Logger().Warnf("cache invalidation failed: %v", ierr)
                    } else if n > 0 {
                        c.Logger().Debugf("cache: dropped %d entries after %s %s", n, method, c.Path())
                    }
                }
                return err
            }

            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if cr, ok := decodeCached(bs); ok {
                    h := c.Response().Header()
                    for k, vals := range cr.header {
                        if outerHeader(k) {
                            continue
                        }
                        h.Del(k)
                        for _, v := range vals {
                            h.Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cr.status)
                    if len(cr.body) > 0 {
                        _, _ = c.Response().Write(cr.body)
                    }
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.truncated() {
                return nil
            }

            hdr := c.Response().Header().Clone()
            for k := range hdr {
                if outerHeader(k) {
                    hdr.Del(k)
                }
            }
            payload, err := cachedResponse{status: cw.status, header: hdr, body: cw.buf.Bytes()}.encode()
            if err == nil {
                _ = rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err()
            }
            return nil
        }
    }
}

func isWrite(method string) bool {
    switch method {
    case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
        return true
    }
    return false
}

// invalidate deletes every key under prefix and returns how many went.
func invalidate(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
    iter := rdb.Scan(ctx, 0, prefix+":*", 200).Iterator()
    var keys []string
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return 0, err
    }
    if len(keys) == 0 {
        return 0, nil
    }
    if err := rdb.Del(ctx, keys...).Err(); err != nil {
        return 0, err
    }
    return len(keys), nil
}

// CachePurger drops the response cache for writers that bypass the HTTP
// layer, such as the queue worker.
type CachePurger struct {
    rdb    *redis.Client
    prefix string
}

// NewCachePurger returns nil when the cache is disabled.
func NewCachePurger(cfg config.CacheConfig, rdb *redis.Client) *CachePurger {
    if !cfg.Enabled || rdb == nil {
        return nil
    }
    return &CachePurger{rdb: rdb, prefix: cfg.Prefix}
}

// Purge deletes every cached response and reports how many went.
func (p *CachePurger) Purge(ctx context.Context) (int, error) {
    return invalidate(ctx, p.rdb, p.prefix)
}
