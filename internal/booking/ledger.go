package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// SeatKey identifies a single bookable slot: one seat on one bus
// serving one route on one travel day.  It is a derived lookup key,
// not a stored entity.  Travel dates are normalized to a UTC calendar
// day, so timestamps naming the same day always produce equal keys.
type SeatKey struct {
	BusID      uint64
	RouteID    uint64
	TravelDate time.Time
	SeatNumber uint32
}

// TravelDay truncates a timestamp to midnight UTC.  Seat state is
// tracked per calendar day of travel; every stored travel_date value
// (keys, holds, tickets) carries this normalized form.
func TravelDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NewSeatKey builds a SeatKey with the travel date normalized via
// TravelDay, so keys built from different time zones or times of day
// compare equal when they name the same day.
func NewSeatKey(busID, routeID uint64, travelDate time.Time, seat uint32) SeatKey {
	return SeatKey{
		BusID:      busID,
		RouteID:    routeID,
		TravelDate: TravelDay(travelDate),
		SeatNumber: seat,
	}
}

// SeatStatus is the derived availability state of a SeatKey.
type SeatStatus int

const (
	SeatAvailable SeatStatus = iota // no active ticket, no live hold
	SeatHeld                        // a live (active, unexpired) hold exists
	SeatSold                        // an active ticket exists
)

func (s SeatStatus) String() string {
	switch s {
	case SeatHeld:
		return "HELD"
	case SeatSold:
		return "SOLD"
	default:
		return "AVAILABLE"
	}
}

// Store is the persistence contract the ledger drives.  The ledger
// serializes all calls that mutate seat state, so implementations do
// not need their own cross-key coordination in a single-instance
// deployment.  A multi-instance deployment must back CreateHold and
// CreateTicket with a unique index over
// (bus_id, route_id, travel_date, seat_number) scoped to active rows
// so the at-most-one invariant survives without the process lock.
//
// Every method must be a fast, bounded, local operation: the ledger
// holds its critical section across these calls.
type Store interface {
	// HasActiveTicket reports whether an active ticket exists for key.
	HasActiveTicket(ctx context.Context, key SeatKey) (bool, error)
	// ActiveHold returns the live hold for key, applying the lazy
	// expiry predicate (is_active AND expiry_time > now), or nil.
	ActiveHold(ctx context.Context, key SeatKey, now time.Time) (*model.SeatReservation, error)
	// CreateHold persists a new hold and fills in its ID.
	CreateHold(ctx context.Context, hold *model.SeatReservation) error
	// ReleaseHold deactivates a hold.  Releasing an already released
	// or unknown hold is a no-op, not an error.
	ReleaseHold(ctx context.Context, id uint64) error
	// ConsumeHold links a hold to the ticket it was converted into and
	// deactivates it in a single update.
	ConsumeHold(ctx context.Context, holdID, ticketID uint64) error
	// ReapExpiredHolds deactivates holds whose expiry passed.  Purely
	// housekeeping: availability never depends on it because every
	// predicate carries the expiry clause.
	ReapExpiredHolds(ctx context.Context, now time.Time) error
	// CreateTicket persists a new ticket and fills in its ID.
	CreateTicket(ctx context.Context, t *model.Ticket) error
	// TicketForClient returns the active ticket with the given id if
	// it belongs to clientID, else ErrTicketNotFound.
	TicketForClient(ctx context.Context, ticketID, clientID uint64) (*model.Ticket, error)
	// DeactivateTicket soft-deletes a ticket, freeing its seat.
	DeactivateTicket(ctx context.Context, ticketID uint64) error
}

// Ledger owns seat state.  Its single mutex is the critical section
// guarding every observe-then-mutate sequence on seat availability:
// no two goroutines can both see a seat as available and both claim
// it.  Reads that feed responses (Status) take the same lock so they
// observe a consistent snapshot.
type Ledger struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time // injected for tests
}

// NewLedger returns a Ledger backed by the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Status reports the derived availability of a seat key.
func (l *Ledger) Status(ctx context.Context, key SeatKey) (SeatStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statusLocked(ctx, key)
}

func (l *Ledger) statusLocked(ctx context.Context, key SeatKey) (SeatStatus, error) {
	sold, err := l.store.HasActiveTicket(ctx, key)
	if err != nil {
		return SeatAvailable, err
	}
	if sold {
		return SeatSold, nil
	}
	hold, err := l.store.ActiveHold(ctx, key, l.now())
	if err != nil {
		return SeatAvailable, err
	}
	if hold != nil {
		return SeatHeld, nil
	}
	return SeatAvailable, nil
}

// HoldIfAvailable is the core atomic primitive: it observes the
// availability of key and, when the seat is free, creates a hold in
// the same critical section.  The seat number is validated against
// the bus capacity first; a sold seat yields a seat_taken conflict, a
// live hold a seat_on_hold conflict.
func (l *Ledger) HoldIfAvailable(ctx context.Context, key SeatKey, capacity uint32, ttl time.Duration) (*model.SeatReservation, error) {
	if key.SeatNumber < 1 || key.SeatNumber > capacity {
		return nil, &InvalidArgumentError{
			Reason:  ReasonInvalidSeat,
			Message: fmt.Sprintf("seat number must be between 1 and %d", capacity),
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	// Housekeeping while we already own the region; keeps the hold
	// table from accumulating stale active rows.
	if err := l.store.ReapExpiredHolds(ctx, now); err != nil {
		return nil, err
	}

	status, err := l.statusLocked(ctx, key)
	if err != nil {
		return nil, err
	}
	switch status {
	case SeatSold:
		return nil, &ConflictError{SeatNumber: key.SeatNumber, Reason: ReasonSeatTaken}
	case SeatHeld:
		return nil, &ConflictError{SeatNumber: key.SeatNumber, Reason: ReasonSeatOnHold}
	}

	hold := &model.SeatReservation{
		BusID:           key.BusID,
		RouteID:         key.RouteID,
		SeatNumber:      key.SeatNumber,
		TravelDate:      key.TravelDate,
		ReservationTime: now,
		ExpiryTime:      now.Add(ttl),
		IsActive:        true,
	}
	if err := l.store.CreateHold(ctx, hold); err != nil {
		return nil, err
	}
	return hold, nil
}

// Release deactivates a hold.  Idempotent by contract of the store.
func (l *Ledger) Release(ctx context.Context, holdID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.ReleaseHold(ctx, holdID)
}

// Sell converts a hold into a ticket: the ticket row is created and
// the hold consumed inside the critical section, so the seat moves
// from HELD straight to SOLD with no observable gap.
func (l *Ledger) Sell(ctx context.Context, holdID uint64, t *model.Ticket) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.CreateTicket(ctx, t); err != nil {
		return err
	}
	return l.store.ConsumeHold(ctx, holdID, t.ID)
}

// Unsell soft-deletes a ticket, making its seat available again.
func (l *Ledger) Unsell(ctx context.Context, ticketID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.DeactivateTicket(ctx, ticketID)
}
