package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-reservation/internal/booking"
	"github.com/iliyamo/bus-ticket-reservation/internal/repository"
)

func runMapping(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := bookingErrorResponse(c, err); err != nil {
		t.Fatalf("bookingErrorResponse returned error: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return rec.Code, body
}

func TestBookingErrorResponseConflict(t *testing.T) {
	code, body := runMapping(t, &booking.ConflictError{SeatNumber: 12, Reason: booking.ReasonSeatOnHold})
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if body["error"] != booking.ReasonSeatOnHold {
		t.Fatalf("expected reason %q, got %v", booking.ReasonSeatOnHold, body["error"])
	}
	if body["seat"] != float64(12) {
		t.Fatalf("expected failing seat 12, got %v", body["seat"])
	}
}

func TestBookingErrorResponseInvalidArgument(t *testing.T) {
	code, body := runMapping(t, &booking.InvalidArgumentError{
		Reason:  booking.ReasonInvalidStationOrder,
		Message: "departure station must precede arrival station on the route",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body["error"] != booking.ReasonInvalidStationOrder {
		t.Fatalf("unexpected reason: %v", body["error"])
	}
}

func TestBookingErrorResponseSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"route missing", booking.ErrRouteNotFound, http.StatusNotFound},
		{"repo route missing", repository.ErrRouteNotFound, http.StatusNotFound},
		{"bus missing", booking.ErrBusNotFound, http.StatusNotFound},
		{"ticket missing", booking.ErrTicketNotFound, http.StatusNotFound},
		{"cancel window closed", booking.ErrCancelWindowClosed, http.StatusConflict},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := runMapping(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
		})
	}
}

func TestParseTravelDate(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	// Both accepted forms name the same UTC travel day, so both must
	// normalize to the same instant.
	for _, in := range []string{"2026-09-14", "2026-09-14T08:00:00Z", "2026-09-14T23:30:00+03:00"} {
		d, err := parseTravelDate(in)
		if err != nil {
			t.Fatalf("%s rejected: %v", in, err)
		}
		if !d.Equal(day) {
			t.Fatalf("%s parsed to %v, want %v", in, d, day)
		}
	}
	if _, err := parseTravelDate("next tuesday"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}
