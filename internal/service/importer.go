package service

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/labstack/gommon/log"

    "github.com/renotrack/renovation-tracker/internal/inference"
    "github.com/renotrack/renovation-tracker/internal/model"
    "github.com/renotrack/renovation-tracker/internal/queue"
    "github.com/renotrack/renovation-tracker/internal/scraper"
)

// ErrAnalysis wraps a text extractor failure during import.
var ErrAnalysis = errors.New("description analysis failed")

// ListingScraper fetches and parses a listing page.
type ListingScraper interface {
    Scrape(ctx context.Context, url string) (*scraper.Result, error)
}

// ListingCreator persists a listing and the children set on it atomically.
type ListingCreator interface {
    Create(ctx context.Context, l *model.Listing) error
}

// EventPublisher delivers listing.imported events.
type EventPublisher interface {
    PublishListingImported(ctx context.Context, ev queue.ListingImportedEvent) error
}

// Importer creates listings from listing page URLs.
type Importer struct {
    scraper   ListingScraper
    listings  ListingCreator
    extractor inference.Extractor
    publisher EventPublisher // nil when the queue is disabled
    logger    *log.Logger
}

func NewImporter(s ListingScraper, l ListingCreator, e inference.Extractor, p EventPublisher, logger *log.Logger) *Importer {
    return &Importer{scraper: s, listings: l, extractor: e, publisher: p, logger: logger}
}

// Preview scrapes url without storing anything.
func (i *Importer) Preview(ctx context.Context, url string) (*scraper.Result, error) {
    return i.scraper.Scrape(ctx, url)
}

// Import scrapes url and stores the listing with all of its photos.  With
// analyze set the description is run through the text extractor first
// and the resulting renovation row is written in the same transaction.
// The judgement is nil unless analyze is set.
func (i *Importer) Import(ctx context.Context, url string, analyze bool) (*model.Listing, *inference.Judgement, error) {
    res, err := i.scraper.Scrape(ctx, url)
    if err != nil {
        return nil, nil, err
    }
    l := res.Listing()

    var j *inference.Judgement
    if analyze {
        j, err = i.extractor.Extract(ctx, l.Description)
        if err != nil {
            return nil, nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
        }
        l.Renovations = []model.Renovation{j.Renovation(0)}
    }

    if err := i.listings.Create(ctx, l); err != nil {
        return nil, nil, err
    }
    i.logger.Infof("imported listing %d from %s (%d photos)", l.ID, url, len(l.Photos))

    if i.publisher != nil {
        ev := queue.ListingImportedEvent{
            ListingID:  l.ID,
            PhotoIDs:   make([]uint64, 0, len(l.Photos)),
            URL:        url,
            ImportedAt: time.Now().UTC().Format(time.RFC3339),
        }
        for _, p := range l.Photos {
            ev.PhotoIDs = append(ev.PhotoIDs, p.ID)
        }
        if err := i.publisher.PublishListingImported(ctx, ev); err != nil {
            i.logger.Warnf("listing %d stored but event not published: %v", l.ID, err)
        }
    }
    return l, j, nil
}
