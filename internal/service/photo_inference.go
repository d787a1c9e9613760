package service

import (
    "context"
    "errors"
    "fmt"

    "github.com/labstack/gommon/log"

    "github.com/renotrack/renovation-tracker/internal/inference"
    "github.com/renotrack/renovation-tracker/internal/model"
    "github.com/renotrack/renovation-tracker/internal/queue"
    "github.com/renotrack/renovation-tracker/internal/repository"
)

// ErrClassifierUnavailable is returned when no room classifier is
// configured.
var ErrClassifierUnavailable = errors.New("classifier not configured")

// PhotoLabelStore is the slice of the photo repository inference needs.
type PhotoLabelStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Photo, error)
    SetRoomTypeIfNull(ctx context.Context, id uint64, rt model.RoomType) (bool, error)
}

// InferenceResult is the outcome of one photo inference.
type InferenceResult struct {
    PhotoID  uint64         `json:"photo_id"`
    RoomType model.RoomType `json:"room_type"`
    Cached   bool           `json:"cached"`
}

// CachePurger drops cached API responses after a write made outside
// the HTTP layer.
type CachePurger interface {
    Purge(ctx context.Context) (int, error)
}

// PhotoInference labels photos with a room type at most once.
type PhotoInference struct {
    photos     PhotoLabelStore
    classifier inference.RoomClassifier // nil disables inference
    purger     CachePurger              // nil when there is no response cache
    logger     *log.Logger
}

func NewPhotoInference(photos PhotoLabelStore, c inference.RoomClassifier, logger *log.Logger) *PhotoInference {
    return &PhotoInference{photos: photos, classifier: c, logger: logger}
}

// PurgeCacheWith makes HandleListingImported drop the response cache
// once it has stored at least one new label.
func (s *PhotoInference) PurgeCacheWith(p CachePurger) *PhotoInference {
    s.purger = p
    return s
}

// Infer returns the stored label when there is one.  Otherwise it asks
// the classifier and stores the answer, unless another caller stored a
// label first, in which case that label wins and is reported as cached.
func (s *PhotoInference) Infer(ctx context.Context, photoID uint64) (*InferenceResult, error) {
    p, err := s.photos.GetByID(ctx, photoID)
    if err != nil {
        return nil, err
    }
    if p.RoomType != nil {
        return &InferenceResult{PhotoID: p.ID, RoomType: *p.RoomType, Cached: true}, nil
    }
    if s.classifier == nil {
        return nil, ErrClassifierUnavailable
    }

    rt, err := s.classifier.Classify(ctx, p.URL)
    if err != nil {
        return nil, err
    }
    set, err := s.photos.SetRoomTypeIfNull(ctx, p.ID, rt)
    if err != nil {
        return nil, err
    }
    if !set {
        cur, err := s.photos.GetByID(ctx, p.ID)
        if err != nil {
            return nil, err
        }
        if cur.RoomType != nil {
            return &InferenceResult{PhotoID: p.ID, RoomType: *cur.RoomType, Cached: true}, nil
        }
        return nil, fmt.Errorf("photo %d: room type not stored", p.ID)
    }
    s.logger.Debugf("photo %d labelled %s", p.ID, rt)
    return &InferenceResult{PhotoID: p.ID, RoomType: rt}, nil
}

// HandleListingImported labels every photo of a freshly imported
// listing.  Photos deleted in the meantime are skipped; other failures
// are collected so one bad photo does not stop the rest.
func (s *PhotoInference) HandleListingImported(ctx context.Context, ev queue.ListingImportedEvent) error {
    if s.classifier == nil {
        return ErrClassifierUnavailable
    }
    var errs []error
    labelled := 0
    for _, id := range ev.PhotoIDs {
        res, err := s.Infer(ctx, id)
        switch {
        case errors.Is(err, repository.ErrPhotoNotFound):
            s.logger.Debugf("photo %d gone, skipping", id)
        case err != nil:
            errs = append(errs, fmt.Errorf("photo %d: %w", id, err))
        default:
            s.logger.Infof("listing %d photo %d: %s (cached=%t)", ev.ListingID, id, res.RoomType, res.Cached)
            if !res.Cached {
                labelled++
            }
        }
    }
    if labelled > 0 && s.purger != nil {
        if n, err := s.purger.Purge(ctx); err != nil {
            s.logger.Warnf("listing %d: cache purge failed: %v", ev.ListingID, err)
        } else if n > 0 {
            s.logger.Debugf("listing %d: dropped %d cached responses", ev.ListingID, n)
        }
    }
    return errors.Join(errs...)
}
