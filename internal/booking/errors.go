// Package booking implements the seat-state core of the reservation
// system: availability tracking per seat key, temporary holds with a
// TTL, all-or-nothing multi-seat purchases and fare calculation.
// Every seat-state transition goes through a single mutual-exclusion
// region owned by the Ledger, which is what guarantees that two
// concurrent buyers can never both claim the same seat.
package booking

import (
	"errors"
	"fmt"
)

// Machine-readable conflict reasons surfaced to the HTTP layer.
const (
	ReasonSeatTaken  = "seat_taken"   // an active ticket exists for the seat
	ReasonSeatOnHold = "seat_on_hold" // another checkout holds the seat
)

// Machine-readable invalid-argument reasons.
const (
	ReasonInvalidSeat         = "invalid_seat"
	ReasonUnknownStation      = "unknown_station"
	ReasonInvalidStationOrder = "invalid_station_order"
	ReasonEmptySeatList       = "empty_seat_list"
	ReasonBusNotOnRoute       = "bus_not_on_route"
)

// ConflictError reports that a seat could not be claimed because it is
// already sold or held.  It names the failing seat so a batch purchase
// can tell the caller exactly which seat to pick differently.  Callers
// may retry with another seat; the error is not transient.
type ConflictError struct {
	SeatNumber uint32 // the seat that could not be claimed
	Reason     string // ReasonSeatTaken or ReasonSeatOnHold
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat %d: %s", e.SeatNumber, e.Reason)
}

// InvalidArgumentError reports a request that can never succeed as
// written (bad seat number, unknown station, wrong station order).
type InvalidArgumentError struct {
	Reason  string // machine-readable reason code
	Message string // human-readable detail
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// Sentinel errors shared between the core and its collaborators.
var (
	// ErrRouteNotFound is returned by Catalog implementations when the
	// requested route does not exist.
	ErrRouteNotFound = errors.New("route not found")
	// ErrBusNotFound is returned by Catalog implementations when the
	// requested bus does not exist or is inactive.
	ErrBusNotFound = errors.New("bus not found")
	// ErrTicketNotFound is returned when a ticket does not exist, is no
	// longer active, or belongs to a different client.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrCancelWindowClosed is returned when a cancellation arrives
	// inside the cutoff window before departure.  The operation is not
	// retryable.
	ErrCancelWindowClosed = errors.New("cancellation window closed")
)
