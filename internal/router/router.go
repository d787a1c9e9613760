// Package router registers every HTTP route of the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/renotrack/renovation-tracker/internal/handler"
	"github.com/renotrack/renovation-tracker/internal/middleware"
)

// Roles allowed to call mutating endpoints when JWT auth is on.
var writerRoles = []string{"editor", "admin"}

// Handlers bundles the resource handlers.
type Handlers struct {
	Listings    *handler.ListingHandler
	Renovations *handler.RenovationHandler
	Photos      *handler.PhotoHandler
	Predict     *handler.PredictHandler
}

// RegisterRoutes registers unauthenticated utility routes.
func RegisterRoutes(e *echo.Echo, p *handler.PredictHandler) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
	// Prediction is read-only, so it lives outside the cached groups and
	// never triggers cache invalidation.
	e.POST("/predict-renovations", p.Predict)
	e.POST("/renovations/predict-renovations", p.Predict)
}

// Register wires all resource routes.  cache wraps the resource groups;
// writes are guarded by a bearer token when jwtSecret is set.
func Register(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc, jwtSecret string) {
	guard := middleware.Protect(jwtSecret, writerRoles...)
	RegisterRoutes(e, h.Predict)
	RegisterListings(e.Group("/listings", cache), h.Listings, h.Renovations, h.Photos, guard)
	RegisterRenovations(e.Group("/renovations", cache), h.Renovations, guard)
	RegisterPhotos(e.Group("/photos", cache), h.Photos, guard)
}
