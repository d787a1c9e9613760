package handler

import (
    "net/http"
    "strconv"
    "strings"
    "unicode/utf8"

    "github.com/labstack/echo/v4"

    "github.com/renotrack/renovation-tracker/internal/model"
)

const (
    defaultPageSize = 25
    maxPageSize     = 100
    maxAddressChars = 255 // VARCHAR(255) in utf8mb4 counts characters
)

// ListingHandler serves /listings.
type ListingHandler struct {
    responder
    Listings ListingStore
    Importer ListingImporter
}

// NewListingHandler wires a ListingHandler; hideDetail strips error
// details from responses.
func NewListingHandler(listings ListingStore, importer ListingImporter, hideDetail bool) *ListingHandler {
    if listings == nil || importer == nil {
        panic("nil dependency passed to NewListingHandler")
    }
    return &ListingHandler{
        responder: responder{hideDetail: hideDetail},
        Listings:  listings,
        Importer:  importer,
    }
}

type createListingRequest struct {
    URL         *string  `json:"url"`
    Address     string   `json:"address"`
    Description string   `json:"description"`
    Price       *float64 `json:"price"`
    Bedrooms    *float64 `json:"bedrooms"`
    Bathrooms   *float64 `json:"bathrooms"`
    YearBuilt   *int     `json:"year_built"`
    Photos      []string `json:"photos"`
}

// Create handles POST /listings.  The listing and its photos are stored
// in one transaction.
func (h *ListingHandler) Create(c echo.Context) error {
    var body createListingRequest
    if err := c.Bind(&body); err != nil {
        return h.badRequest(c, "invalid request body")
    }
    l := &model.Listing{
        URL:         body.URL,
        Address:     strings.TrimSpace(body.Address),
        Description: strings.TrimSpace(body.Description),
        Price:       body.Price,
        Bedrooms:    body.Bedrooms,
        Bathrooms:   body.Bathrooms,
        YearBuilt:   body.YearBuilt,
    }
    if msg := validateListing(l); msg != "" {
        return h.badRequest(c, msg)
    }
    for _, src := range body.Photos {
        src = strings.TrimSpace(src)
        if src == "" {
            return h.badRequest(c, "photo urls must not be empty")
        }
        l.Photos = append(l.Photos, model.Photo{URL: src})
    }
    if err := h.Listings.Create(c.Request().Context(), l); err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusCreated, l)
}

func validateListing(l *model.Listing) string {
    switch {
    case l.Address == "":
        return "address is required"
    case utf8.RuneCountInString(l.Address) > maxAddressChars:
        return "address is too long"
    case l.Description == "":
        return "description is required"
    case negative(l.Price), negative(l.Bedrooms), negative(l.Bathrooms):
        return "price, bedrooms and bathrooms must not be negative"
    case negative(l.YearBuilt):
        return "year_built must not be negative"
    }
    return ""
}

// CreateFromURL handles POST /listings/url.  The url comes from the query
// string or a JSON body; analyze=true also stores a renovation row
// derived from the description.
func (h *ListingHandler) CreateFromURL(c echo.Context) error {
    var body struct {
        URL     string `json:"url"`
        Analyze bool   `json:"analyze"`
    }
    if c.Request().ContentLength > 0 {
        if err := c.Bind(&body); err != nil {
            return h.badRequest(c, "invalid request body")
        }
    }
    url := strings.TrimSpace(c.QueryParam("url"))
    if url == "" {
        url = strings.TrimSpace(body.URL)
    }
    if url == "" {
        return h.badRequest(c, "url is required")
    }
    analyze := body.Analyze
    if raw := c.QueryParam("analyze"); raw != "" {
        v, err := strconv.ParseBool(raw)
        if err != nil {
            return h.badRequest(c, "analyze must be a boolean")
        }
        analyze = v
    }

    l, _, err := h.Importer.Import(c.Request().Context(), url, analyze)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusCreated, l)
}

// ScrapePreview handles GET /listings/scrape-preview?url=.  Nothing is
// stored.
func (h *ListingHandler) ScrapePreview(c echo.Context) error {
    url := strings.TrimSpace(c.QueryParam("url"))
    if url == "" {
        return h.badRequest(c, "url is required")
    }
    res, err := h.Importer.Preview(c.Request().Context(), url)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// List handles GET /listings?limit=&offset=.
func (h *ListingHandler) List(c echo.Context) error {
    limit, offset := defaultPageSize, 0
    if raw := c.QueryParam("limit"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 1 {
            return h.badRequest(c, "limit must be a positive integer")
        }
        limit = min(n, maxPageSize)
    }
    if raw := c.QueryParam("offset"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 0 {
            return h.badRequest(c, "offset must be a non-negative integer")
        }
        offset = n
    }
    out, err := h.Listings.List(c.Request().Context(), limit, offset)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /listings/:id and includes photos and renovations.
func (h *ListingHandler) Get(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    l, err := h.Listings.GetDetailed(c.Request().Context(), id)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, l)
}

// Update handles PUT and PATCH /listings/:id.  Only fields present in the
// body change; null clears a nullable field.
func (h *ListingHandler) Update(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    var p model.ListingPatch
    if err := c.Bind(&p); err != nil {
        return h.badRequest(c, "invalid request body")
    }
    if msg := validateListingPatch(&p); msg != "" {
        return h.badRequest(c, msg)
    }
    l, err := h.Listings.Update(c.Request().Context(), id, p)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, l)
}

// validateListingPatch trims strings in place and returns a message for
// the first invalid field.
func validateListingPatch(p *model.ListingPatch) string {
    if p.Address.IsNull() || p.Description.IsNull() {
        return "address and description cannot be null"
    }
    p.Address.Value = strings.TrimSpace(p.Address.Value)
    p.Description.Value = strings.TrimSpace(p.Description.Value)
    switch {
    case p.Address.Set && p.Address.Value == "":
        return "address must not be empty"
    case utf8.RuneCountInString(p.Address.Value) > maxAddressChars:
        return "address is too long"
    case p.Description.Set && p.Description.Value == "":
        return "description must not be empty"
    case negative(p.Price.Ptr()), negative(p.Bedrooms.Ptr()), negative(p.Bathrooms.Ptr()):
        return "price, bedrooms and bathrooms must not be negative"
    case negative(p.YearBuilt.Ptr()):
        return "year_built must not be negative"
    }
    return ""
}

// Delete handles DELETE /listings/:id.  Photos and renovations go with it.
func (h *ListingHandler) Delete(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    if err := h.Listings.Delete(c.Request().Context(), id); err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, map[string]string{"message": "Listing Deleted"})
}
