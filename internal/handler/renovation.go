package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/renotrack/renovation-tracker/internal/model"
)

// RenovationHandler serves /renovations and /listings/:id/renovations.
type RenovationHandler struct {
    responder
    Renovations RenovationStore
}

func NewRenovationHandler(store RenovationStore, hideDetail bool) *RenovationHandler {
    if store == nil {
        panic("nil repository passed to NewRenovationHandler")
    }
    return &RenovationHandler{responder: responder{hideDetail: hideDetail}, Renovations: store}
}

// Create handles POST /renovations.  Flags default to false.
func (h *RenovationHandler) Create(c echo.Context) error {
    var r model.Renovation
    if err := c.Bind(&r); err != nil {
        return h.badRequest(c, "invalid request body")
    }
    if r.ListingID == 0 {
        return h.badRequest(c, "listing_id is required")
    }
    r.ID = 0 // ids are assigned by the database
    if err := h.Renovations.Create(c.Request().Context(), &r); err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusCreated, r)
}

// ListByListing handles GET /renovations/:id/read and
// GET /listings/:id/renovations where :id is the listing id.
func (h *RenovationHandler) ListByListing(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid listing id")
    }
    out, err := h.Renovations.ListByListing(c.Request().Context(), id)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /renovations/:id.
func (h *RenovationHandler) Get(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    r, err := h.Renovations.GetByID(c.Request().Context(), id)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, r)
}

// Update handles PUT and PATCH /renovations/:id.
func (h *RenovationHandler) Update(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    var p model.RenovationPatch
    if err := c.Bind(&p); err != nil {
        return h.badRequest(c, "invalid request body")
    }
    if field, ok := p.Validate(); !ok {
        return h.badRequest(c, field+" cannot be null")
    }
    if p.ListingID.Set && p.ListingID.Value == 0 {
        return h.badRequest(c, "listing_id must be positive")
    }
    r, err := h.Renovations.Update(c.Request().Context(), id, p)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /renovations/:id.
func (h *RenovationHandler) Delete(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    if err := h.Renovations.Delete(c.Request().Context(), id); err != nil {
        return h.failErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
