package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/renotrack/renovation-tracker/internal/model"
)

// PhotoHandler serves /photos and /listings/:id/photos.
type PhotoHandler struct {
    responder
    Photos    PhotoStore
    Inference PhotoInferrer
}

func NewPhotoHandler(store PhotoStore, inf PhotoInferrer, hideDetail bool) *PhotoHandler {
    if store == nil || inf == nil {
        panic("nil dependency passed to NewPhotoHandler")
    }
    return &PhotoHandler{responder: responder{hideDetail: hideDetail}, Photos: store, Inference: inf}
}

// Create handles POST /photos.
func (h *PhotoHandler) Create(c echo.Context) error {
    var body struct {
        ListingID uint64  `json:"listing_id"`
        URL       string  `json:"url"`
        RoomType  *string `json:"room_type"`
    }
    if err := c.Bind(&body); err != nil {
        return h.badRequest(c, "invalid request body")
    }
    p := &model.Photo{ListingID: body.ListingID, URL: strings.TrimSpace(body.URL)}
    if p.ListingID == 0 {
        return h.badRequest(c, "listing_id is required")
    }
    if p.URL == "" {
        return h.badRequest(c, "url is required")
    }
    if body.RoomType != nil {
        rt, ok := model.ParseRoomType(*body.RoomType)
        if !ok {
            return h.badRequest(c, "unknown room_type")
        }
        p.RoomType = &rt
    }
    if err := h.Photos.Create(c.Request().Context(), p); err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusCreated, p)
}

// ListByListing handles GET /photos/:id/read and GET /listings/:id/photos
// where :id is the listing id.
func (h *PhotoHandler) ListByListing(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid listing id")
    }
    out, err := h.Photos.ListByListing(c.Request().Context(), id)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /photos/:id.
func (h *PhotoHandler) Get(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    p, err := h.Photos.GetByID(c.Request().Context(), id)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// Update handles PUT and PATCH /photos/:id.  A room_type of null clears
// the label so inference can run again.
func (h *PhotoHandler) Update(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    var p model.PhotoPatch
    if err := c.Bind(&p); err != nil {
        return h.badRequest(c, "invalid request body")
    }
    switch {
    case p.ListingID.IsNull() || (p.ListingID.Set && p.ListingID.Value == 0):
        return h.badRequest(c, "listing_id must be positive")
    case p.URL.IsNull() || (p.URL.Set && strings.TrimSpace(p.URL.Value) == ""):
        return h.badRequest(c, "url must not be empty")
    }
    p.URL.Value = strings.TrimSpace(p.URL.Value)
    if p.RoomType.Set && p.RoomType.Valid {
        rt, ok := model.ParseRoomType(p.RoomType.Value)
        if !ok {
            return h.badRequest(c, "unknown room_type")
        }
        p.RoomType = model.Of(string(rt))
    }
    photo, err := h.Photos.Update(c.Request().Context(), id, p)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, photo)
}

// Delete handles DELETE /photos/:id.
func (h *PhotoHandler) Delete(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return h.badRequest(c, "invalid id")
    }
    if err := h.Photos.Delete(c.Request().Context(), id); err != nil {
        return h.failErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Infer handles PUT /photos/:id/inference and PUT /photos/inference?photo_id=.
// A stored label is returned as is with cached=true.
func (h *PhotoHandler) Infer(c echo.Context) error {
    raw := c.Param("id")
    if raw == "" {
        raw = c.QueryParam("photo_id")
    }
    id, ok := parseID(raw)
    if !ok {
        return h.badRequest(c, "invalid photo_id")
    }
    res, err := h.Inference.Infer(c.Request().Context(), id)
    if err != nil {
        return h.failErr(c, err)
    }
    return c.JSON(http.StatusOK, res)
}
