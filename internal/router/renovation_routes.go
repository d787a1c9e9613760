package router

import (
	"github.com/labstack/echo/v4"

	"github.com/renotrack/renovation-tracker/internal/handler"
)

// RegisterRenovations mounts /renovations.  /:id/read takes a listing id.
func RegisterRenovations(g *echo.Group, r *handler.RenovationHandler, guard echo.MiddlewareFunc) {
	g.POST("", r.Create, guard)
	g.GET("/:id/read", r.ListByListing)
	g.GET("/:id", r.Get)
	g.PUT("/:id", r.Update, guard)
	g.PATCH("/:id", r.Update, guard)
	g.DELETE("/:id", r.Delete, guard)
}
