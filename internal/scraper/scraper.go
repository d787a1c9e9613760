// Package scraper turns a listing page URL into listing fields and photo
// URLs using a headless browser and CSS selectors.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

const defaultTimeout = 45 * time.Second

var (
	// ErrMissingField means a required field was absent from the page.
	ErrMissingField = errors.New("required field missing from page")
	// ErrFetch means the page could not be loaded.
	ErrFetch = errors.New("could not load listing page")
	// ErrInvalidURL rejects anything that is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid listing url")
)

// Scraper fetches and parses listing pages.
type Scraper struct {
	browser Browser
}

func New(b Browser) *Scraper {
	return &Scraper{browser: b}
}

// Scrape loads rawURL and parses it into a Result.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	html, err := s.browser.PageSource(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return ParseListing(rawURL, html)
}

// ValidateURL checks that rawURL is absolute http or https.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}
