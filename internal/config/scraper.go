package config

import (
    "os"
    "time"
)

// ScraperConfig holds headless browser settings for the listing scraper.
type ScraperConfig struct {
    Timeout   time.Duration
    ChromeBin string
    UserAgent string
    Headless  bool
}

func LoadScraperConfig() ScraperConfig {
    return ScraperConfig{
        Timeout:   envDur("SCRAPER_TIMEOUT", 45*time.Second),
        ChromeBin: os.Getenv("CHROME_BIN"),
        UserAgent: envStr("SCRAPER_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
            "(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
        Headless: envBool("SCRAPER_HEADLESS", true),
    }
}
