package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Root answers GET / with a JSON status object.
func Root(c echo.Context) error {
    return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Health is a plain-text liveness probe for load balancers.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
