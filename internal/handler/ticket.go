package handler // handler package contains ticket purchase and reservation handlers

import (
	"context"
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/bus-ticket-reservation/internal/booking"
	"github.com/iliyamo/bus-ticket-reservation/internal/queue"
	"github.com/iliyamo/bus-ticket-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/bus-ticket-reservation/internal/service"
)

// TicketHandler exposes the booking core over HTTP: seat holds,
// atomic multi-seat purchases, ticket listing and cancellation.
type TicketHandler struct {
	Orch    *booking.Orchestrator
	Tickets *repository.TicketRepo
	Routes  *repository.RouteRepo

	// publish sends the purchase event; swapped in tests.
	publish func(ctx context.Context, ev queue.TicketsPurchasedEvent) error
}

func NewTicketHandler(orch *booking.Orchestrator, tickets *repository.TicketRepo, routes *repository.RouteRepo) *TicketHandler {
	if orch == nil || tickets == nil || routes == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{
		Orch:    orch,
		Tickets: tickets,
		Routes:  routes,
		publish: queue_publisher.PublishTicketsPurchased,
	}
}

type reserveSeatReq struct {
	RouteID    uint64 `json:"route_id"`
	BusID      uint64 `json:"bus_id"`
	SeatNumber uint32 `json:"seat_number"`
	TravelDate string `json:"travel_date"`
}

type buyReq struct {
	RouteID          uint64   `json:"route_id"`
	DepartureStation string   `json:"departure_station"`
	ArrivalStation   string   `json:"arrival_station"`
	TravelDate       string   `json:"travel_date"`
	SeatNumbers      []uint32 `json:"seat_numbers"`
}

// ReserveSeat handles POST /v1/tickets/reserve-seat.  It places a
// short-lived hold on one seat so the caller can complete checkout
// without losing it to a concurrent buyer.
func (h *TicketHandler) ReserveSeat(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body reserveSeatReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	travelDate, err := parseTravelDate(body.TravelDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "travel_date is required (RFC 3339 or YYYY-MM-DD)"})
	}
	hold, err := h.Orch.ReserveSeat(c.Request().Context(), body.RouteID, body.BusID, body.SeatNumber, travelDate)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, hold)
}

// ReleaseReservation handles DELETE /v1/tickets/reservations/:id.
// Releasing an already-released or expired hold succeeds.
func (h *TicketHandler) ReleaseReservation(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Orch.ReleaseReservation(c.Request().Context(), id); err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Buy handles POST /v1/tickets/buy.  The purchase is all-or-nothing:
// either every requested seat becomes a ticket or the request fails
// with the first conflicting seat and nothing is sold.
func (h *TicketHandler) Buy(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body buyReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	dep := strings.TrimSpace(body.DepartureStation)
	arr := strings.TrimSpace(body.ArrivalStation)
	if dep == "" || arr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_station and arrival_station are required"})
	}
	travelDate, err := parseTravelDate(body.TravelDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "travel_date is required (RFC 3339 or YYYY-MM-DD)"})
	}

	res, err := h.Orch.Purchase(c.Request().Context(), clientID, body.RouteID, dep, arr, travelDate, body.SeatNumbers)
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	h.publishPurchase(clientID, body.RouteID, dep, arr, travelDate, res)

	return c.JSON(http.StatusCreated, echo.Map{
		"tickets":     res.Tickets,
		"total_price": res.TotalPrice,
	})
}

// publishPurchase emits the tickets.purchased event in the background.
// Delivery is best effort: a broker outage must never fail a purchase
// that is already committed.  The route enrichment lookup also runs in
// the goroutine so the response never waits on it.
func (h *TicketHandler) publishPurchase(clientID, routeID uint64, dep, arr string, travelDate time.Time, res *booking.PurchaseResult) {
	seats := make([]uint32, 0, len(res.Tickets))
	numbers := make([]string, 0, len(res.Tickets))
	for _, t := range res.Tickets {
		seats = append(seats, t.SeatNumber)
		numbers = append(numbers, t.TicketNumber)
	}
	ev := queue.TicketsPurchasedEvent{
		ClientID:      clientID,
		RouteID:       routeID,
		Departure:     dep,
		Arrival:       arr,
		TravelDate:    travelDate.Format(time.RFC3339),
		SeatNumbers:   seats,
		TicketNumbers: numbers,
		TotalPrice:    res.TotalPrice,
		PurchasedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if rt, err := h.Routes.GetByID(ctx, routeID); err == nil {
			ev.RouteName = rt.Name
			ev.BusID = rt.BusID
		}
		_ = h.publish(ctx, ev)
	}()
}

// MyTickets handles GET /v1/tickets/my with skip/limit pagination.
func (h *TicketHandler) MyTickets(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skip, limit := parsePaging(c)
	items, err := h.Tickets.ListByClient(c.Request().Context(), clientID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetTicket handles GET /v1/tickets/:id.  Ownership is enforced; a
// ticket belonging to someone else reads as not found.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Tickets.GetByIDForClient(c.Request().Context(), id, clientID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// CancelTicket handles DELETE /v1/tickets/:id.  Cancellation is
// allowed only while departure is further away than the configured
// cutoff; afterwards the ticket is final.
func (h *TicketHandler) CancelTicket(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Orch.Cancel(c.Request().Context(), id, clientID); err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
