package router

import (
	"github.com/labstack/echo/v4"

	"github.com/renotrack/renovation-tracker/internal/handler"
)

// RegisterListings mounts /listings.  Static segments (url,
// scrape-preview) take precedence over :id in echo's router.
func RegisterListings(g *echo.Group, l *handler.ListingHandler, r *handler.RenovationHandler, p *handler.PhotoHandler, guard echo.MiddlewareFunc) {
	g.POST("", l.Create, guard)
	g.POST("/url", l.CreateFromURL, guard)
	g.GET("/scrape-preview", l.ScrapePreview)
	g.GET("", l.List)
	g.GET("/:id", l.Get)
	g.PUT("/:id", l.Update, guard)
	g.PATCH("/:id", l.Update, guard)
	g.DELETE("/:id", l.Delete, guard)

	// Children of a listing.
	g.GET("/:id/renovations", r.ListByListing)
	g.GET("/:id/photos", p.ListByListing)
}
