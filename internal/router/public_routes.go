package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-reservation/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints on the
// provided Echo instance.  Guests can inspect the fleet, the route
// catalog and per-date seat availability before registering.  The
// optional middleware (typically the Redis response cache) is applied
// to the whole group.
func RegisterPublic(e *echo.Echo, b *handler.BusHandler, r *handler.RouteHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)

	// Fleet browsing
	g.GET("/buses", b.ListBuses)
	g.GET("/buses/:id", b.GetBus)
	// Seat availability for a bus on a route and travel date.  Status is
	// derived from active tickets and live holds.
	g.GET("/buses/:id/seats", b.BusSeats)

	// Route catalog
	g.GET("/routes", r.ListRoutes)
	g.GET("/routes/:id", r.GetRoute)
	// Station-pair search: ?departure_station=Kyiv&arrival_station=Odesa
	g.GET("/routes/search", r.SearchRoutes)
}
