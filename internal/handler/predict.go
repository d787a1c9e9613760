package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/renotrack/renovation-tracker/internal/inference"
)

// PredictHandler runs the text extractor without touching the database.
type PredictHandler struct {
    responder
    Extractor inference.Extractor
}

func NewPredictHandler(e inference.Extractor, hideDetail bool) *PredictHandler {
    if e == nil {
        panic("nil extractor passed to NewPredictHandler")
    }
    return &PredictHandler{responder: responder{hideDetail: hideDetail}, Extractor: e}
}

// Predict handles POST /predict-renovations and
// POST /renovations/predict-renovations.
func (h *PredictHandler) Predict(c echo.Context) error {
    var body struct {
        Description string `json:"description"`
    }
    if err := c.Bind(&body); err != nil {
        return h.badRequest(c, "invalid request body")
    }
    desc := strings.TrimSpace(body.Description)
    if desc == "" {
        return h.badRequest(c, "description is required")
    }
    j, err := h.Extractor.Extract(c.Request().Context(), desc)
    if err != nil {
        status, msg := errorStatus(err)
        if status == http.StatusInternalServerError {
            status, msg = http.StatusBadGateway, "description analysis failed"
        }
        return h.fail(c, status, msg, err)
    }
    return c.JSON(http.StatusOK, map[string]*inference.Judgement{"result": j})
}
