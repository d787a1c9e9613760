package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/renotrack/renovation-tracker/internal/model"
)

var yearBuiltRe = regexp.MustCompile(`Built in\s*(\d+)`)

// Result is what a listing page yields.  Optional values the page does
// not carry stay nil.
type Result struct {
	URL         string   `json:"url"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Bedrooms    *float64 `json:"bedrooms"`
	Bathrooms   *float64 `json:"bathrooms"`
	YearBuilt   *int     `json:"year_built"`
	PhotoURLs   []string `json:"photos"`
}

// Listing converts the result to an unsaved listing with its photos.
func (r *Result) Listing() *model.Listing {
	l := &model.Listing{
		Address:     r.Address,
		Description: r.Description,
		Price:       r.Price,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		YearBuilt:   r.YearBuilt,
	}
	if r.URL != "" {
		u := r.URL
		l.URL = &u
	}
	for _, src := range r.PhotoURLs {
		l.Photos = append(l.Photos, model.Photo{URL: src})
	}
	return l
}

// ParseListing extracts listing fields from a rendered listing page.
// Address and description are required; everything else is best effort.
func ParseListing(pageURL, html string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	res := &Result{URL: pageURL, PhotoURLs: []string{}}

	addrMain := doc.Find("span.property-info-address-main").First()
	if addrMain.Length() == 0 || strings.TrimSpace(addrMain.Text()) == "" {
		return nil, fmt.Errorf("%w: address", ErrMissingField)
	}
	parts := []string{strings.TrimSpace(addrMain.Text())}
	doc.Find("span.property-info-address-citystatezip").First().Contents().Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	res.Address = strings.Join(parts, " ")

	desc := strings.TrimSpace(doc.Find("p.ldp-description-text").First().Text())
	if desc == "" {
		return nil, fmt.Errorf("%w: description", ErrMissingField)
	}
	res.Description = desc

	if p := doc.Find("span.property-info-price").First(); p.Length() > 0 {
		res.Price = parseNumber(p.Text())
	}

	features := doc.Find("span.property-info-feature")
	if f := features.Eq(0); f.Find("span.feature-beds").Length() > 0 {
		res.Bedrooms = parseNumber(f.Find("span.property-info-feature-detail").First().Text())
	}
	if f := features.Eq(1); f.Find("span.feature-baths").Length() > 0 {
		res.Bathrooms = parseNumber(f.Find("span.property-info-feature-detail").First().Text())
	}

	doc.Find("li.amenities-detail").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := yearBuiltRe.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		if y, err := strconv.Atoi(m[1]); err == nil {
			res.YearBuilt = &y
		}
		return false
	})

	seen := make(map[string]bool)
	doc.Find("div.embla__container.primary-carousel-container img.primary-carousel-slide-img.carousel-item").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		src = strings.TrimSpace(src)
		if !ok || src == "" || seen[src] {
			return
		}
		seen[src] = true
		res.PhotoURLs = append(res.PhotoURLs, src)
	})

	return res, nil
}

// parseNumber reads "$1,250,000" or "2.5" style text.
func parseNumber(s string) *float64 {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
