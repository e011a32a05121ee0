package handler // handler package contains route management handlers

import (
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
	"github.com/iliyamo/bus-ticket-reservation/internal/repository"
)

// RouteHandler bundles the repositories needed to manage scheduled
// routes, answer station-pair searches and enrich route details with
// seat availability.
type RouteHandler struct {
	Routes       *repository.RouteRepo
	Buses        *repository.BusRepo
	Tickets      *repository.TicketRepo
	Reservations *repository.ReservationRepo
}

func NewRouteHandler(r *repository.RouteRepo, b *repository.BusRepo, t *repository.TicketRepo, res *repository.ReservationRepo) *RouteHandler {
	if r == nil || b == nil || t == nil || res == nil {
		panic("nil repository passed to NewRouteHandler")
	}
	return &RouteHandler{Routes: r, Buses: b, Tickets: t, Reservations: res}
}

type routeReq struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	BusID         uint64    `json:"bus_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Stations      []string  `json:"stations"`
}

// validateRouteBody normalizes and checks a create/update payload.
// The station list must contain at least two distinct, non-empty
// entries because a route with fewer stops cannot sell a segment.
func validateRouteBody(body *routeReq) string {
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return "name is required"
	}
	if body.BusID == 0 {
		return "bus_id is required"
	}
	if len(body.Stations) < 2 {
		return "at least two stations are required"
	}
	seen := make(map[string]bool, len(body.Stations))
	for i, s := range body.Stations {
		s = strings.TrimSpace(s)
		if s == "" {
			return "station names must not be empty"
		}
		if seen[s] {
			return "station names must be unique"
		}
		seen[s] = true
		body.Stations[i] = s
	}
	if !body.ArrivalTime.After(body.DepartureTime) {
		return "arrival_time must be after departure_time"
	}
	return ""
}

// CreateRoute handles POST /v1/routes.
func (h *RouteHandler) CreateRoute(c echo.Context) error {
	var body routeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateRouteBody(&body); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	// The referenced bus must exist and be in service.
	if _, err := h.Buses.GetByID(c.Request().Context(), body.BusID); err != nil {
		return bookingErrorResponse(c, err)
	}
	rt := &model.Route{
		Name:          body.Name,
		Description:   strings.TrimSpace(body.Description),
		BusID:         body.BusID,
		DepartureTime: body.DepartureTime.UTC(),
		ArrivalTime:   body.ArrivalTime.UTC(),
		Stations:      body.Stations,
	}
	if err := h.Routes.Create(c.Request().Context(), rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create route"})
	}
	return c.JSON(http.StatusCreated, rt)
}

// ListRoutes handles GET /v1/routes with skip/limit pagination.
func (h *RouteHandler) ListRoutes(c echo.Context) error {
	skip, limit := parsePaging(c)
	items, err := h.Routes.List(c.Request().Context(), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRoute handles GET /v1/routes/:id.  When a travel_date query
// parameter is present the response additionally lists the seat
// numbers still available on that date.
func (h *RouteHandler) GetRoute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	rt, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	rawDate := c.QueryParam("travel_date")
	if rawDate == "" {
		return c.JSON(http.StatusOK, rt)
	}
	travelDate, err := parseTravelDate(rawDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid travel_date"})
	}
	bus, err := h.Buses.GetByID(ctx, rt.BusID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	occupied, err := h.Tickets.OccupiedSeatNumbers(ctx, bus.ID, rt.ID, travelDate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	held, err := h.Reservations.HeldSeatNumbers(ctx, bus.ID, rt.ID, travelDate, nowUTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	taken := make(map[uint32]bool, len(occupied)+len(held))
	for _, n := range occupied {
		taken[n] = true
	}
	for _, n := range held {
		taken[n] = true
	}
	available := make([]uint32, 0, bus.Capacity)
	for n := uint32(1); n <= bus.Capacity; n++ {
		if !taken[n] {
			available = append(available, n)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"route":           rt,
		"travel_date":     travelDate,
		"available_seats": available,
	})
}

// UpdateRoute handles PUT /v1/routes/:id.
func (h *RouteHandler) UpdateRoute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body routeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateRouteBody(&body); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if _, err := h.Buses.GetByID(c.Request().Context(), body.BusID); err != nil {
		return bookingErrorResponse(c, err)
	}
	rt := &model.Route{
		ID:            id,
		Name:          body.Name,
		Description:   strings.TrimSpace(body.Description),
		BusID:         body.BusID,
		DepartureTime: body.DepartureTime.UTC(),
		ArrivalTime:   body.ArrivalTime.UTC(),
		Stations:      body.Stations,
	}
	if err := h.Routes.Update(c.Request().Context(), rt); err != nil {
		return bookingErrorResponse(c, err)
	}
	updated, err := h.Routes.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteRoute handles DELETE /v1/routes/:id.  Routes with active
// tickets cannot be removed.
func (h *RouteHandler) DeleteRoute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route has active tickets"})
		}
		return bookingErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchRoutes handles GET /v1/routes/search and returns routes where
// the departure station precedes the arrival station in the route's
// station order.
func (h *RouteHandler) SearchRoutes(c echo.Context) error {
	from := strings.TrimSpace(c.QueryParam("departure_station"))
	to := strings.TrimSpace(c.QueryParam("arrival_station"))
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_station and arrival_station query parameters are required"})
	}
	all, err := h.Routes.All(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	matches := make([]*model.Route, 0)
	for _, rt := range all {
		depIdx := rt.StationIndex(from)
		arrIdx := rt.StationIndex(to)
		if depIdx >= 0 && arrIdx >= 0 && depIdx < arrIdx {
			matches = append(matches, rt)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": matches})
}
