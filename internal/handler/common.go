package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/renotrack/renovation-tracker/internal/inference"
    "github.com/renotrack/renovation-tracker/internal/model"
    "github.com/renotrack/renovation-tracker/internal/repository"
    "github.com/renotrack/renovation-tracker/internal/scraper"
    "github.com/renotrack/renovation-tracker/internal/service"
)

// ListingStore is the listing persistence used by ListingHandler.
type ListingStore interface {
    Create(ctx context.Context, l *model.Listing) error
    GetDetailed(ctx context.Context, id uint64) (*model.Listing, error)
    List(ctx context.Context, limit, offset int) ([]*model.Listing, error)
    Update(ctx context.Context, id uint64, p model.ListingPatch) (*model.Listing, error)
    Delete(ctx context.Context, id uint64) error
}

// RenovationStore is the renovation persistence used by RenovationHandler.
type RenovationStore interface {
    Create(ctx context.Context, r *model.Renovation) error
    GetByID(ctx context.Context, id uint64) (*model.Renovation, error)
    ListByListing(ctx context.Context, listingID uint64) ([]model.Renovation, error)
    Update(ctx context.Context, id uint64, p model.RenovationPatch) (*model.Renovation, error)
    Delete(ctx context.Context, id uint64) error
}

// PhotoStore is the photo persistence used by PhotoHandler.
type PhotoStore interface {
    Create(ctx context.Context, p *model.Photo) error
    GetByID(ctx context.Context, id uint64) (*model.Photo, error)
    ListByListing(ctx context.Context, listingID uint64) ([]model.Photo, error)
    Update(ctx context.Context, id uint64, p model.PhotoPatch) (*model.Photo, error)
    Delete(ctx context.Context, id uint64) error
}

// ListingImporter creates listings from listing page URLs.
type ListingImporter interface {
    Import(ctx context.Context, url string, analyze bool) (*model.Listing, *inference.Judgement, error)
    Preview(ctx context.Context, url string) (*scraper.Result, error)
}

// PhotoInferrer assigns room types to photos.
type PhotoInferrer interface {
    Infer(ctx context.Context, photoID uint64) (*service.InferenceResult, error)
}

// errorStatus maps domain errors onto HTTP status codes and short messages.
func errorStatus(err error) (int, string) {
    switch {
    case errors.Is(err, repository.ErrListingNotFound):
        return http.StatusNotFound, "listing not found"
    case errors.Is(err, repository.ErrRenovationNotFound):
        return http.StatusNotFound, "renovation not found"
    case errors.Is(err, repository.ErrPhotoNotFound):
        return http.StatusNotFound, "photo not found"
    case errors.Is(err, repository.ErrDuplicateAddress):
        return http.StatusConflict, "a listing with this address already exists"
    case errors.Is(err, scraper.ErrInvalidURL):
        return http.StatusBadRequest, "url must be an absolute http(s) url"
    case errors.Is(err, scraper.ErrMissingField):
        return http.StatusUnprocessableEntity, "listing page is missing required fields"
    case errors.Is(err, scraper.ErrFetch):
        return http.StatusBadGateway, "could not load listing page"
    case errors.Is(err, service.ErrClassifierUnavailable):
        return http.StatusServiceUnavailable, "classifier not configured"
    case errors.Is(err, inference.ErrClassifier), errors.Is(err, inference.ErrUnknownRoom):
        return http.StatusBadGateway, "room classification failed"
    case errors.Is(err, service.ErrAnalysis), errors.Is(err, inference.ErrBadResponse):
        return http.StatusBadGateway, "description analysis failed"
    }
    return http.StatusInternalServerError, "internal error"
}

// responder writes {"error": ..., "detail": ...} bodies.  detail carries
// the underlying error text and is left out when hideDetail is set.
type responder struct {
    hideDetail bool
}

func (r responder) fail(c echo.Context, status int, msg string, err error) error {
    body := map[string]string{"error": msg}
    if err != nil && !r.hideDetail {
        body["detail"] = err.Error()
    }
    if status >= http.StatusInternalServerError {
        c.Logger().Errorf("%s %s: %s: %v", c.Request().Method, c.Path(), msg, err)
    }
    return c.JSON(status, body)
}

func (r responder) failErr(c echo.Context, err error) error {
    status, msg := errorStatus(err)
    return r.fail(c, status, msg, err)
}

func (r responder) badRequest(c echo.Context, msg string) error {
    return r.fail(c, http.StatusBadRequest, msg, nil)
}

// parseID reads a positive integer path or query parameter.
func parseID(raw string) (uint64, bool) {
    id, err := strconv.ParseUint(raw, 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

func negative[T int | float64](p *T) bool { return p != nil && *p < 0 }
