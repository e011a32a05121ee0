package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// Catalog supplies the route and bus records the orchestrator needs
// to validate a purchase.  Implementations return ErrRouteNotFound /
// ErrBusNotFound for unknown or inactive records.
type Catalog interface {
	RouteByID(ctx context.Context, id uint64) (*model.Route, error)
	BusByID(ctx context.Context, id uint64) (*model.Bus, error)
}

// PurchaseResult is the outcome of a successful multi-seat purchase.
type PurchaseResult struct {
	Tickets    []*model.Ticket
	TotalPrice int64
}

// Orchestrator drives the purchase flow: it validates the request,
// claims every requested seat through the hold manager, converts the
// holds into tickets and prices the batch.  A batch either yields a
// ticket for every requested seat or leaves no active holds and no
// tickets behind.
type Orchestrator struct {
	holds        *Manager
	store        Store
	catalog      Catalog
	price        PriceCalculator
	cancelCutoff time.Duration

	now          func() time.Time // injected for tests
	ticketNumber func() string    // injected for tests
}

// NewOrchestrator wires the purchase flow.  cancelCutoff is how long
// before departure a ticket may still be cancelled.
func NewOrchestrator(holds *Manager, store Store, catalog Catalog, price PriceCalculator, cancelCutoff time.Duration) *Orchestrator {
	return &Orchestrator{
		holds:        holds,
		store:        store,
		catalog:      catalog,
		price:        price,
		cancelCutoff: cancelCutoff,
		now:          func() time.Time { return time.Now().UTC() },
		ticketNumber: uuid.NewString,
	}
}

// validateSegment resolves the route and bus and checks the station
// pair.  It returns the bus and the segment length in station hops.
func (o *Orchestrator) validateSegment(ctx context.Context, route *model.Route, depStation, arrStation string) (*model.Bus, int, error) {
	depIdx := route.StationIndex(depStation)
	arrIdx := route.StationIndex(arrStation)
	if depIdx < 0 || arrIdx < 0 {
		return nil, 0, &InvalidArgumentError{
			Reason:  ReasonUnknownStation,
			Message: "departure and arrival stations must belong to the route",
		}
	}
	if depIdx >= arrIdx {
		return nil, 0, &InvalidArgumentError{
			Reason:  ReasonInvalidStationOrder,
			Message: "departure station must precede arrival station on the route",
		}
	}
	bus, err := o.catalog.BusByID(ctx, route.BusID)
	if err != nil {
		return nil, 0, err
	}
	return bus, arrIdx - depIdx, nil
}

// Purchase buys the requested seats for clientID in one atomic batch.
// Holds are acquired in the caller-specified seat order, which fixes a
// deterministic claim order; the first conflict releases every hold
// acquired so far and aborts with a *ConflictError naming the failing
// seat.  A duplicate seat number in the request conflicts with its own
// first occurrence and therefore aborts the whole batch.
func (o *Orchestrator) Purchase(ctx context.Context, clientID, routeID uint64, depStation, arrStation string, travelDate time.Time, seats []uint32) (*PurchaseResult, error) {
	if len(seats) == 0 {
		return nil, &InvalidArgumentError{
			Reason:  ReasonEmptySeatList,
			Message: "at least one seat is required",
		}
	}
	route, err := o.catalog.RouteByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	bus, hops, err := o.validateSegment(ctx, route, depStation, arrStation)
	if err != nil {
		return nil, err
	}

	// Claim every seat before creating any ticket.
	acquired := make([]*model.SeatReservation, 0, len(seats))
	for _, seat := range seats {
		key := NewSeatKey(bus.ID, route.ID, travelDate, seat)
		hold, err := o.holds.Hold(ctx, key, bus.Capacity)
		if err != nil {
			o.releaseAll(ctx, acquired)
			return nil, err
		}
		acquired = append(acquired, hold)
	}

	// All seats are ours; materialize the tickets.
	purchasedAt := o.now()
	tickets := make([]*model.Ticket, 0, len(acquired))
	for i, hold := range acquired {
		t := &model.Ticket{
			TicketNumber:     o.ticketNumber(),
			ClientID:         clientID,
			RouteID:          route.ID,
			BusID:            bus.ID,
			DepartureStation: depStation,
			ArrivalStation:   arrStation,
			SeatNumber:       hold.SeatNumber,
			PurchaseDate:     purchasedAt,
			TravelDate:       TravelDay(travelDate),
			IsActive:         true,
		}
		if err := o.holds.Convert(ctx, hold.ID, t); err != nil {
			// Infrastructure failure mid-conversion: undo the tickets
			// already written and release the holds not yet consumed,
			// so the batch never stays half-committed.
			for _, sold := range tickets {
				_ = o.store.DeactivateTicket(ctx, sold.ID)
			}
			o.releaseAll(ctx, acquired[i:])
			return nil, err
		}
		tickets = append(tickets, t)
	}

	perSeat := o.price.Price(hops)
	return &PurchaseResult{
		Tickets:    tickets,
		TotalPrice: perSeat * int64(len(tickets)),
	}, nil
}

func (o *Orchestrator) releaseAll(ctx context.Context, holds []*model.SeatReservation) {
	for i := len(holds) - 1; i >= 0; i-- {
		_ = o.holds.Release(ctx, holds[i].ID)
	}
}

// ReserveSeat places a single hold on a seat, the entry point of an
// interactive checkout.  The bus must be the one serving the route.
func (o *Orchestrator) ReserveSeat(ctx context.Context, routeID, busID uint64, seat uint32, travelDate time.Time) (*model.SeatReservation, error) {
	route, err := o.catalog.RouteByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	bus, err := o.catalog.BusByID(ctx, busID)
	if err != nil {
		return nil, err
	}
	if route.BusID != bus.ID {
		return nil, &InvalidArgumentError{
			Reason:  ReasonBusNotOnRoute,
			Message: "bus does not serve the requested route",
		}
	}
	key := NewSeatKey(bus.ID, route.ID, travelDate, seat)
	return o.holds.Hold(ctx, key, bus.Capacity)
}

// ReleaseReservation releases a hold.  Safe to call more than once.
func (o *Orchestrator) ReleaseReservation(ctx context.Context, holdID uint64) error {
	return o.holds.Release(ctx, holdID)
}

// Cancel soft-deletes a ticket owned by clientID.  Cancellation is a
// policy decision, not a race: it is only permitted while departure is
// further away than the configured cutoff.  A ticket owned by another
// client reports ErrTicketNotFound rather than revealing that the id
// exists.  On success the seat is immediately available to new holds.
func (o *Orchestrator) Cancel(ctx context.Context, ticketID, clientID uint64) error {
	t, err := o.store.TicketForClient(ctx, ticketID, clientID)
	if err != nil {
		return err
	}
	if t.TravelDate.Sub(o.now()) <= o.cancelCutoff {
		return ErrCancelWindowClosed
	}
	return o.holds.ledger.Unsell(ctx, t.ID)
}
