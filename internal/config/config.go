package config // package config loads application configuration from environment variables

import (
    "fmt"
    "os"
    "strings"

    "github.com/joho/godotenv"
    "github.com/labstack/gommon/log"
)

// Config holds the core runtime configuration.  Concern-specific settings
// (cache, rate limit, inference, scraper, queue) have their own loaders so
// that tools which only need one of them do not require the rest.
type Config struct {
    Env       string // application environment (dev, test, prod)
    Port      string // HTTP port to listen on
    DSN       string // full go-sql-driver DSN; overrides the DB_* parts when set
    DBUser    string // database username
    DBPass    string // database password (optional)
    DBHost    string // database host address
    DBPort    string // database port number
    DBName    string // database name
    JWTSecret string // HS256 secret for write endpoints; empty disables auth
    LogLevel  log.Lvl
}

// Load reads a .env file when present and then the process environment.
// A missing DB_NAME (without DATABASE_DSN) or an unknown LOG_LEVEL is an
// error; everything else has a default.
func Load() (Config, error) {
    _ = godotenv.Load() // a missing .env is fine, real env vars still apply

    cfg := Config{
        Env:       envStr("APP_ENV", "dev"),
        Port:      envStr("APP_PORT", "8080"),
        DSN:       os.Getenv("DATABASE_DSN"),
        DBUser:    envStr("DB_USER", "root"),
        DBPass:    os.Getenv("DB_PASS"),
        DBHost:    envStr("DB_HOST", "localhost"),
        DBPort:    envStr("DB_PORT", "3306"),
        DBName:    os.Getenv("DB_NAME"),
        JWTSecret: os.Getenv("JWT_SECRET"),
    }
    if cfg.DSN == "" && cfg.DBName == "" {
        return Config{}, fmt.Errorf("missing required env var: DB_NAME (or DATABASE_DSN)")
    }
    lvl, err := parseLevel(envStr("LOG_LEVEL", "info"))
    if err != nil {
        return Config{}, err
    }
    cfg.LogLevel = lvl
    return cfg, nil
}

// IsProd reports whether error details must be hidden from API clients.
func (c Config) IsProd() bool {
    return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// NewLogger returns a prefixed gommon logger at the configured level.
func (c Config) NewLogger(prefix string) *log.Logger {
    l := log.New(prefix)
    l.SetLevel(c.LogLevel)
    return l
}

func parseLevel(s string) (log.Lvl, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return log.DEBUG, nil
    case "info":
        return log.INFO, nil
    case "warn", "warning":
        return log.WARN, nil
    case "error":
        return log.ERROR, nil
    case "off":
        return log.OFF, nil
    }
    return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
}
