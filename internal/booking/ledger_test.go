package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var testDate = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)

func TestSeatKeyNormalizesTravelDay(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	kyiv := time.FixedZone("Europe/Kyiv", 3*3600)

	cases := []time.Time{
		day,
		time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 14, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 9, 14, 12, 0, 0, 0, kyiv), // 09:00 UTC same day
	}
	want := NewSeatKey(1, 1, day, 5)
	for _, in := range cases {
		got := NewSeatKey(1, 1, in, 5)
		if got != want {
			t.Fatalf("key for %v = %+v, want %+v", in, got, want)
		}
		if !got.TravelDate.Equal(day) {
			t.Fatalf("travel date for %v = %v, want %v", in, got.TravelDate, day)
		}
	}
}

func TestHoldIfAvailableRejectsOutOfRangeSeat(t *testing.T) {
	ledger := NewLedger(newMemStore())
	ctx := context.Background()

	for _, seat := range []uint32{0, 41} {
		_, err := ledger.HoldIfAvailable(ctx, NewSeatKey(1, 1, testDate, seat), 40, 10*time.Minute)
		var ia *InvalidArgumentError
		if !errors.As(err, &ia) {
			t.Fatalf("seat %d: expected InvalidArgumentError, got %v", seat, err)
		}
		if ia.Reason != ReasonInvalidSeat {
			t.Fatalf("seat %d: expected reason %q, got %q", seat, ReasonInvalidSeat, ia.Reason)
		}
	}
}

func TestConcurrentHoldsExactlyOneWinner(t *testing.T) {
	st := newMemStore()
	ledger := NewLedger(st)
	ctx := context.Background()
	key := NewSeatKey(1, 1, testDate, 7)

	const workers = 16
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = ledger.HoldIfAvailable(ctx, key, 40, 10*time.Minute)
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		default:
			var ce *ConflictError
			if !errors.As(err, &ce) {
				t.Fatalf("unexpected error type: %v", err)
			}
			if ce.Reason != ReasonSeatOnHold || ce.SeatNumber != 7 {
				t.Fatalf("unexpected conflict: %+v", ce)
			}
			conflicts++
		}
	}
	if wins != 1 || conflicts != workers-1 {
		t.Fatalf("expected exactly 1 winner and %d conflicts, got %d/%d", workers-1, wins, conflicts)
	}
	if got := st.activeHoldCount(); got != 1 {
		t.Fatalf("expected a single active hold, got %d", got)
	}
}

func TestExpiredHoldNeverBlocksNewHold(t *testing.T) {
	st := newMemStore()
	ledger := NewLedger(st)
	ctx := context.Background()
	key := NewSeatKey(1, 1, testDate, 3)

	clock := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return clock }

	first, err := ledger.HoldIfAvailable(ctx, key, 40, 10*time.Minute)
	if err != nil {
		t.Fatalf("first hold failed: %v", err)
	}

	// One second past expiry; the row's active flag was never cleared.
	clock = clock.Add(10*time.Minute + time.Second)

	if status, err := ledger.Status(ctx, key); err != nil || status != SeatAvailable {
		t.Fatalf("expected AVAILABLE after expiry, got %v (err=%v)", status, err)
	}
	second, err := ledger.HoldIfAvailable(ctx, key, 40, 10*time.Minute)
	if err != nil {
		t.Fatalf("hold after expiry failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected a new hold row, got the old one back")
	}
	// The expired row must have been reaped on the way.
	if got := st.activeHoldCount(); got != 1 {
		t.Fatalf("expected 1 active hold after reaping, got %d", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	st := newMemStore()
	ledger := NewLedger(st)
	ctx := context.Background()
	key := NewSeatKey(2, 5, testDate, 12)

	if status, _ := ledger.Status(ctx, key); status != SeatAvailable {
		t.Fatalf("fresh seat should be AVAILABLE, got %v", status)
	}

	hold, err := ledger.HoldIfAvailable(ctx, key, 40, 10*time.Minute)
	if err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if status, _ := ledger.Status(ctx, key); status != SeatHeld {
		t.Fatalf("held seat should be HELD, got %v", status)
	}

	tk := newTestTicket(key)
	if err := ledger.Sell(ctx, hold.ID, tk); err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if status, _ := ledger.Status(ctx, key); status != SeatSold {
		t.Fatalf("sold seat should be SOLD, got %v", status)
	}

	// Consuming the hold linked it to the ticket and deactivated it.
	st.mu.Lock()
	stored := st.holds[hold.ID]
	st.mu.Unlock()
	if stored.IsActive || stored.TicketID == nil || *stored.TicketID != tk.ID {
		t.Fatalf("hold not consumed correctly: %+v", stored)
	}

	if err := ledger.Unsell(ctx, tk.ID); err != nil {
		t.Fatalf("unsell failed: %v", err)
	}
	if status, _ := ledger.Status(ctx, key); status != SeatAvailable {
		t.Fatalf("seat should be AVAILABLE again after unsell, got %v", status)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	st := newMemStore()
	ledger := NewLedger(st)
	ctx := context.Background()
	key := NewSeatKey(1, 1, testDate, 9)

	hold, err := ledger.HoldIfAvailable(ctx, key, 40, 10*time.Minute)
	if err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if err := ledger.Release(ctx, hold.ID); err != nil {
		t.Fatalf("first release failed: %v", err)
	}
	if err := ledger.Release(ctx, hold.ID); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
	if err := ledger.Release(ctx, 999999); err != nil {
		t.Fatalf("releasing an unknown hold should be a no-op, got %v", err)
	}
	if _, err := ledger.HoldIfAvailable(ctx, key, 40, 10*time.Minute); err != nil {
		t.Fatalf("seat should be holdable after release: %v", err)
	}
}
