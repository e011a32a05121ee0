package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel matching for booking failures
	"net/http"
	"strconv" // strconv converts strings to numeric types
	"strings" // strings provides trimming helpers
	"time"

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/bus-ticket-reservation/internal/booking"
	"github.com/iliyamo/bus-ticket-reservation/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseIDParam parses the :id path segment as an unsigned integer.
func parseIDParam(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// parsePaging reads skip/limit query parameters with defaults and a
// hard cap on the page size.
func parsePaging(c echo.Context) (skip, limit int) {
	skip, limit = 0, 50
	if v := c.QueryParam("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}
	return skip, limit
}

// parseTravelDate accepts either an RFC 3339 timestamp or a bare
// calendar date.  Seat state is tracked per UTC travel day, so both
// forms normalize to midnight UTC of the day they name; a timestamp's
// time of day is discarded.
func parseTravelDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return booking.TravelDay(t), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return booking.TravelDay(t), nil
}

func nowUTC() time.Time { return time.Now().UTC() }

// bookingErrorResponse maps booking and repository failures onto HTTP
// responses with machine-readable reason codes.  Unknown errors fall
// through to a generic 500.
func bookingErrorResponse(c echo.Context, err error) error {
	var conflict *booking.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": conflict.Reason,
			"seat":  conflict.SeatNumber,
		})
	}
	var invalid *booking.InvalidArgumentError
	if errors.As(err, &invalid) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   invalid.Reason,
			"message": invalid.Message,
		})
	}
	switch {
	case errors.Is(err, booking.ErrRouteNotFound), errors.Is(err, repository.ErrRouteNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
	case errors.Is(err, booking.ErrBusNotFound), errors.Is(err, repository.ErrBusNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
	case errors.Is(err, booking.ErrTicketNotFound), errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, booking.ErrCancelWindowClosed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "cancel_window_closed"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
