package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func TestParseListingFull(t *testing.T) {
	res, err := ParseListing("https://example.com/home/1", fixture(t, "listing.html"))
	require.NoError(t, err)

	assert.Equal(t, "123 Main St Oakland, CA 94610", res.Address)
	assert.Contains(t, res.Description, "remodeled kitchen")
	require.NotNil(t, res.Price)
	assert.Equal(t, 1250000.0, *res.Price)
	require.NotNil(t, res.Bedrooms)
	assert.Equal(t, 3.0, *res.Bedrooms)
	require.NotNil(t, res.Bathrooms)
	assert.Equal(t, 2.5, *res.Bathrooms)
	require.NotNil(t, res.YearBuilt)
	assert.Equal(t, 1925, *res.YearBuilt)
	assert.Equal(t, []string{"https://ap.rdcpix.com/a.jpg", "https://ap.rdcpix.com/b.jpg"}, res.PhotoURLs)
}

func TestParseListingOptionalFieldsDegrade(t *testing.T) {
	res, err := ParseListing("https://example.com/home/2", fixture(t, "minimal.html"))
	require.NoError(t, err)

	assert.Equal(t, "9 Elm Ct Berkeley, CA 94704", res.Address)
	assert.Nil(t, res.Price)
	assert.Nil(t, res.Bedrooms, "first feature is not a bed count")
	assert.Nil(t, res.Bathrooms)
	assert.Nil(t, res.YearBuilt)
	assert.Empty(t, res.PhotoURLs)
}

func TestParseListingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		field string
	}{
		{"no description", fixture(t, "no_description.html"), "description"},
		{"empty page", "<html><body></body></html>", "address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListing("https://example.com", tt.html)
			require.ErrorIs(t, err, ErrMissingField)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestResultListing(t *testing.T) {
	res, err := ParseListing("https://example.com/home/1", fixture(t, "listing.html"))
	require.NoError(t, err)

	l := res.Listing()
	require.NotNil(t, l.URL)
	assert.Equal(t, "https://example.com/home/1", *l.URL)
	assert.Equal(t, res.Address, l.Address)
	require.Len(t, l.Photos, 2)
	assert.Equal(t, "https://ap.rdcpix.com/b.jpg", l.Photos[1].URL)
}

type stubBrowser struct {
	html string
	err  error
	hits int
}

func (b *stubBrowser) PageSource(context.Context, string) (string, error) {
	b.hits++
	return b.html, b.err
}

func TestScrape(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		b := &stubBrowser{html: fixture(t, "listing.html")}
		res, err := New(b).Scrape(context.Background(), "https://example.com/home/1")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/home/1", res.URL)
	})

	t.Run("browser failure passes through", func(t *testing.T) {
		b := &stubBrowser{err: errors.Join(ErrFetch, errors.New("net::ERR_NAME_NOT_RESOLVED"))}
		_, err := New(b).Scrape(context.Background(), "https://example.invalid/")
		assert.ErrorIs(t, err, ErrFetch)
	})

	t.Run("bad url never reaches the browser", func(t *testing.T) {
		b := &stubBrowser{}
		for _, u := range []string{"", "example.com/home", "ftp://example.com/x", "http://"} {
			_, err := New(b).Scrape(context.Background(), u)
			assert.ErrorIs(t, err, ErrInvalidURL, u)
		}
		assert.Zero(t, b.hits)
	})
}
