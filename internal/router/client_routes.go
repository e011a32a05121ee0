package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-reservation/internal/handler"
	"github.com/iliyamo/bus-ticket-reservation/internal/middleware"
)

// RegisterClient registers authenticated endpoints under /v1.  All
// routes require a valid JWT with the CLIENT role.  Clients manage the
// fleet and route catalog, place seat holds, buy tickets and cancel
// their own purchases.
func RegisterClient(e *echo.Echo, b *handler.BusHandler, r *handler.RouteHandler, t *handler.TicketHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleClient),
	)

	// ---- Fleet management ----
	// Note: GET /v1/buses and GET /v1/buses/:id are registered on the
	// public router so that guests can browse.
	g.POST("/buses", b.CreateBus)
	g.PUT("/buses/:id", b.UpdateBus)
	g.PATCH("/buses/:id", b.UpdateBus)
	g.DELETE("/buses/:id", b.DeleteBus)

	// ---- Route catalog ----
	g.POST("/routes", r.CreateRoute)
	g.PUT("/routes/:id", r.UpdateRoute)
	g.PATCH("/routes/:id", r.UpdateRoute)
	g.DELETE("/routes/:id", r.DeleteRoute)

	// ---- Tickets ----
	g.POST("/tickets/reserve-seat", t.ReserveSeat)
	g.DELETE("/tickets/reservations/:id", t.ReleaseReservation)
	g.POST("/tickets/buy", t.Buy)
	g.GET("/tickets/my", t.MyTickets)
	g.GET("/tickets/:id", t.GetTicket)
	g.DELETE("/tickets/:id", t.CancelTicket)
}
