package handler // handler package contains fleet management handlers

import (
	"net/http" // http provides status code constants
	"strconv"  // strconv parses query identifiers
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
	"github.com/iliyamo/bus-ticket-reservation/internal/repository"
)

// BusHandler bundles the repositories needed to manage the fleet and
// answer seat-availability queries.
type BusHandler struct {
	Buses        *repository.BusRepo
	Tickets      *repository.TicketRepo
	Reservations *repository.ReservationRepo
}

func NewBusHandler(b *repository.BusRepo, t *repository.TicketRepo, r *repository.ReservationRepo) *BusHandler {
	if b == nil || t == nil || r == nil {
		panic("nil repository passed to NewBusHandler")
	}
	return &BusHandler{Buses: b, Tickets: t, Reservations: r}
}

type busReq struct {
	RegistrationNumber string `json:"registration_number"`
	Model              string `json:"model"`
	Capacity           uint32 `json:"capacity"`
}

// CreateBus handles POST /v1/buses.
func (h *BusHandler) CreateBus(c echo.Context) error {
	var body busReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reg := strings.TrimSpace(body.RegistrationNumber)
	if reg == "" || body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration_number and positive capacity are required"})
	}
	bus := &model.Bus{
		RegistrationNumber: reg,
		Model:              strings.TrimSpace(body.Model),
		Capacity:           body.Capacity,
		IsActive:           true,
	}
	if err := h.Buses.Create(c.Request().Context(), bus); err != nil {
		if err == repository.ErrRegistrationExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "registration_number_taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create bus"})
	}
	return c.JSON(http.StatusCreated, bus)
}

// ListBuses handles GET /v1/buses with skip/limit pagination.
func (h *BusHandler) ListBuses(c echo.Context) error {
	skip, limit := parsePaging(c)
	items, err := h.Buses.List(c.Request().Context(), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBus handles GET /v1/buses/:id.
func (h *BusHandler) GetBus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	bus, err := h.Buses.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, bus)
}

// UpdateBus handles PUT /v1/buses/:id.
func (h *BusHandler) UpdateBus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body busReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reg := strings.TrimSpace(body.RegistrationNumber)
	if reg == "" || body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration_number and positive capacity are required"})
	}
	bus := &model.Bus{
		ID:                 id,
		RegistrationNumber: reg,
		Model:              strings.TrimSpace(body.Model),
		Capacity:           body.Capacity,
		IsActive:           true,
	}
	if err := h.Buses.Update(c.Request().Context(), bus); err != nil {
		switch err {
		case repository.ErrBusNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		case repository.ErrRegistrationExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "registration_number_taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Buses.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteBus handles DELETE /v1/buses/:id as a soft delete.
func (h *BusHandler) DeleteBus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Buses.Deactivate(c.Request().Context(), id); err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BusSeats handles GET /v1/buses/:id/seats and reports per-seat
// availability for a route and travel date.  A seat is available when
// it has neither an active ticket nor a live hold.
func (h *BusHandler) BusSeats(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	routeID, err := strconv.ParseUint(c.QueryParam("route_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_id query parameter is required"})
	}
	travelDate, err := parseTravelDate(c.QueryParam("travel_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "travel_date query parameter is required"})
	}

	ctx := c.Request().Context()
	bus, err := h.Buses.GetByID(ctx, id)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	occupied, err := h.Tickets.OccupiedSeatNumbers(ctx, bus.ID, routeID, travelDate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	held, err := h.Reservations.HeldSeatNumbers(ctx, bus.ID, routeID, travelDate, nowUTC())
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
		"bus_id":      bus.ID,
		"route_id":    routeID,
		"travel_date": travelDate,
		"capacity":    bus.Capacity,
		"occupied":    occupied,
		"held":        held,
		"available":   available,
	})
}
