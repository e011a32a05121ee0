package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

const (
	fixtureBusID   = 10
	fixtureRouteID = 20
	fixtureClient  = 77
)

// newFixture wires a full core against the in-memory store: one bus
// with 40 seats serving a four-station route, so Kyiv to Odesa is a
// three-hop segment.
func newFixture() (*memStore, *Orchestrator) {
	st := newMemStore()
	ledger := NewLedger(st)
	holds := NewManager(ledger, 10*time.Minute)
	catalog := &memCatalog{
		routes: map[uint64]*model.Route{
			fixtureRouteID: {
				ID:       fixtureRouteID,
				Name:     "Kyiv - Odesa",
				BusID:    fixtureBusID,
				Stations: []string{"Kyiv", "Uman", "Mykolaiv", "Odesa"},
			},
		},
		buses: map[uint64]*model.Bus{
			fixtureBusID: {
				ID:                 fixtureBusID,
				RegistrationNumber: "AA1234BB",
				Model:              "Neoplan N116",
				Capacity:           40,
				IsActive:           true,
			},
		},
	}
	price := PriceCalculator{BasePrice: 50, PerHopRate: 10}
	orch := NewOrchestrator(holds, st, catalog, price, 24*time.Hour)
	n := 0
	orch.ticketNumber = func() string { n++; return fmt.Sprintf("tn-%04d", n) }
	return st, orch
}

func TestPurchaseSuccess(t *testing.T) {
	st, orch := newFixture()
	ctx := context.Background()

	res, err := orch.Purchase(ctx, fixtureClient, fixtureRouteID, "Kyiv", "Odesa", testDate, []uint32{1, 2})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if len(res.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(res.Tickets))
	}
	// 3 hops at base 50 + 3*10 = 80 per seat, 160 for two.
	if res.TotalPrice != 160 {
		t.Fatalf("expected total price 160, got %d", res.TotalPrice)
	}
	for i, tk := range res.Tickets {
		if !tk.IsActive || tk.ID == 0 || tk.TicketNumber == "" {
			t.Fatalf("ticket %d not materialized: %+v", i, tk)
		}
		if tk.ClientID != fixtureClient || tk.DepartureStation != "Kyiv" || tk.ArrivalStation != "Odesa" {
			t.Fatalf("ticket %d has wrong fields: %+v", i, tk)
		}
	}
	if res.Tickets[0].TicketNumber == res.Tickets[1].TicketNumber {
		t.Fatalf("ticket numbers must be unique")
	}
	// Every hold was consumed; the tickets now block the seats.
	if got := st.activeHoldCount(); got != 0 {
		t.Fatalf("expected no active holds after purchase, got %d", got)
	}
	if got := st.activeTicketCount(); got != 2 {
		t.Fatalf("expected 2 active tickets, got %d", got)
	}
}

func TestPurchaseDuplicateSeatFailsWhole(t *testing.T) {
	st, orch := newFixture()
	ctx := context.Background()

	_, err := orch.Purchase(ctx, fixtureClient, fixtureRouteID, "Kyiv", "Odesa", testDate, []uint32{3, 4, 3})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.SeatNumber != 3 || ce.Reason != ReasonSeatOnHold {
		t.Fatalf("duplicate should self-conflict on seat 3, got %+v", ce)
	}
	if got := st.activeTicketCount(); got != 0 {
		t.Fatalf("expected no tickets, got %d", got)
	}
	if got := st.activeHoldCount(); got != 0 {
		t.Fatalf("expected all holds rolled back, got %d active", got)
	}
}

func TestPurchaseConflictOnSoldSeatRollsBack(t *testing.T) {
	st, orch := newFixture()
	ctx := context.Background()

	// Seat 2 is already sold on this bus/route/date.
	sold := newTestTicket(NewSeatKey(fixtureBusID, fixtureRouteID, testDate, 2))
	if err := st.CreateTicket(ctx, sold); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	_, err := orch.Purchase(ctx, fixtureClient, fixtureRouteID, "Kyiv", "Odesa", testDate, []uint32{1, 2})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.SeatNumber != 2 || ce.Reason != ReasonSeatTaken {
		t.Fatalf("conflict should name seat 2 as taken, got %+v", ce)
	}
	// Seat 1's hold was released; only the pre-existing ticket remains.
	if got := st.activeHoldCount(); got != 0 {
		t.Fatalf("expected seat 1 hold released, got %d active holds", got)
	}
	if got := st.activeTicketCount(); got != 1 {
		t.Fatalf("expected only the seeded ticket, got %d", got)
	}
}

func TestPurchaseValidatesStations(t *testing.T) {
	_, orch := newFixture()
	ctx := context.Background()

	cases := []struct {
		dep, arr string
		reason   string
	}{
		{"Odesa", "Kyiv", ReasonInvalidStationOrder},
		{"Kyiv", "Kyiv", ReasonInvalidStationOrder},
		{"Kyiv", "Kharkiv", ReasonUnknownStation},
		{"Lutsk", "Odesa", ReasonUnknownStation},
	}
	for _, tc := range cases {
		_, err := orch.Purchase(ctx, fixtureClient, fixtureRouteID, tc.dep, tc.arr, testDate, []uint32{1})
		var ia *InvalidArgumentError
		if !errors.As(err, &ia) {
			t.Fatalf("%s->%s: expected InvalidArgumentError, got %v", tc.dep, tc.arr, err)
		}
		if ia.Reason != tc.reason {
			t.Fatalf("%s->%s: expected reason %q, got %q", tc.dep, tc.arr, tc.reason, ia.Reason)
		}
	}
}

func TestPurchaseEmptySeatList(t *testing.T) {
	_, orch := newFixture()
	_, err := orch.Purchase(context.Background(), fixtureClient, fixtureRouteID, "Kyiv", "Odesa", testDate, nil)
	var ia *InvalidArgumentError
	if !errors.As(err, &ia) || ia.Reason != ReasonEmptySeatList {
		t.Fatalf("expected empty_seat_list, got %v", err)
	}
}

func TestPurchaseUnknownRoute(t *testing.T) {
	_, orch := newFixture()
	_, err := orch.Purchase(context.Background(), fixtureClient, 404, "Kyiv", "Odesa", testDate, []uint32{1})
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestConcurrentPurchasesOfSameSeat(t *testing.T) {
	st, orch := newFixture()
	ctx := context.Background()

	const buyers = 8
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orch.Purchase(ctx, uint64(100+i), fixtureRouteID, "Kyiv", "Odesa", testDate, []uint32{5})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var ce *ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one buyer to win seat 5, got %d", wins)
	}
	if got := st.activeTicketCount(); got != 1 {
		t.Fatalf("expected exactly one active ticket, got %d", got)
	}
	if got := st.activeHoldCount(); got != 0 {
		t.Fatalf("expected no dangling holds, got %d", got)
	}
}

func TestPurchaseSameTravelDayDifferentTimesConflicts(t *testing.T) {
	st, orch := newFixture()
	ctx := context.Background()

	// Two requests naming the same calendar day at different times of
	// day contend for the same seat.
	midnight := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	morning := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)

	if _, err := orch.Purchase(ctx, fixtureClient, fixtureRouteID, "Kyiv", "Odesa", midnight, []uint32{5}); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}
	_, err := orch.Purchase(ctx, fixtureClient+1, fixtureRouteID, "Kyiv", "Odesa", morning, []uint32{5})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.SeatNumber != 5 || ce.Reason != ReasonSeatTaken {
		t.Fatalf("expected seat 5 taken, got %+v", ce)
	}
	if got := st.activeTicketCount(); got != 1 {
		t.Fatalf("seat 5 must be sold exactly once for the day, got %d tickets", got)
	}
}

func TestReserveSeatAndRelease(t *testing.T) {
	_, orch := newFixture()
	ctx := context.Background()

	hold, err := orch.ReserveSeat(ctx, fixtureRouteID, fixtureBusID, 8, testDate)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if hold.ExpiryTime.Sub(hold.ReservationTime) != 10*time.Minute {
		t.Fatalf("expected a 10 minute TTL, got %v", hold.ExpiryTime.Sub(hold.ReservationTime))
	}

	// Same seat through the purchase path conflicts while held.
	_, err = orch.Purchase(ctx, fixtureClient, fixtureRouteID, "Kyiv", "Odesa", testDate, []uint32{8})
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Reason != ReasonSeatOnHold {
		t.Fatalf("expected seat_on_hold conflict, got %v", err)
	}

	if err := orch.ReleaseReservation(ctx, hold.ID); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if err := orch.ReleaseReservation(ctx, hold.ID); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
	if _, err := orch.Purchase(ctx, fixtureClient, fixtureRouteID, "Kyiv", "Odesa", testDate, []uint32{8}); err != nil {
		t.Fatalf("purchase after release failed: %v", err)
	}
}

func TestReserveSeatBusMustServeRoute(t *testing.T) {
	_, orch := newFixture()
	// A second bus that exists but is not assigned to the route.
	orchCatalog := orch.catalog.(*memCatalog)
	orchCatalog.buses[99] = &model.Bus{ID: 99, Capacity: 50, IsActive: true}

	_, err := orch.ReserveSeat(context.Background(), fixtureRouteID, 99, 1, testDate)
	var ia *InvalidArgumentError
	if !errors.As(err, &ia) || ia.Reason != ReasonBusNotOnRoute {
		t.Fatalf("expected bus_not_on_route, got %v", err)
	}
}

func TestCancelWindow(t *testing.T) {
	st, orch := newFixture()
	ctx := context.Background()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	orch.now = func() time.Time { return now }

	buy := func(travel time.Time, seat uint32) *model.Ticket {
		t.Helper()
		res, err := orch.Purchase(ctx, fixtureClient, fixtureRouteID, "Kyiv", "Odesa", travel, []uint32{seat})
		if err != nil {
			t.Fatalf("purchase failed: %v", err)
		}
		return res.Tickets[0]
	}

	// Departure day starts 12 hours from now: inside the cutoff,
	// refused.  The cutoff is measured against midnight UTC of the
	// travel day.
	soon := buy(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 1)
	if err := orch.Cancel(ctx, soon.ID, fixtureClient); !errors.Is(err, ErrCancelWindowClosed) {
		t.Fatalf("expected ErrCancelWindowClosed, got %v", err)
	}

	// Departure day starts 36 hours from now: allowed, and the seat
	// frees up.
	laterDate := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	later := buy(laterDate, 2)
	if err := orch.Cancel(ctx, later.ID, fixtureClient); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := orch.ReserveSeat(ctx, fixtureRouteID, fixtureBusID, 2, laterDate); err != nil {
		t.Fatalf("seat should be immediately holdable after cancel: %v", err)
	}

	// Ownership: another client's id behaves as not-found.
	kept := buy(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), 3)
	if err := orch.Cancel(ctx, kept.ID, fixtureClient+1); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("foreign cancel should be ErrTicketNotFound, got %v", err)
	}
	// soon and kept stay active; later was cancelled.
	if got := st.activeTicketCount(); got != 2 {
		t.Fatalf("expected 2 active tickets, got %d", got)
	}
}
