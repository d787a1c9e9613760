package router

import (
	"github.com/labstack/echo/v4"

	"github.com/renotrack/renovation-tracker/internal/handler"
)

// RegisterPhotos mounts /photos.  /:id/read takes a listing id; both
// inference routes write the label and are guarded.
func RegisterPhotos(g *echo.Group, p *handler.PhotoHandler, guard echo.MiddlewareFunc) {
	g.POST("", p.Create, guard)
	g.PUT("/inference", p.Infer, guard)
	g.GET("/:id/read", p.ListByListing)
	g.GET("/:id", p.Get)
	g.PUT("/:id", p.Update, guard)
	g.PATCH("/:id", p.Update, guard)
	g.DELETE("/:id", p.Delete, guard)
	g.PUT("/:id/inference", p.Infer, guard)
}
