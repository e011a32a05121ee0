package booking

import (
	"context"
	"time"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// Manager creates and retires temporary seat holds.  It owns the hold
// TTL and delegates the check-and-create critical section to the
// Ledger.  Hold conflicts come back as *ConflictError so a batch
// purchase can roll back deterministically instead of catching
// generic failures.
type Manager struct {
	ledger *Ledger
	ttl    time.Duration
}

// NewManager returns a Manager issuing holds that expire after ttl.
func NewManager(ledger *Ledger, ttl time.Duration) *Manager {
	return &Manager{ledger: ledger, ttl: ttl}
}

// TTL returns the configured hold lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Hold atomically claims the seat identified by key when it is
// available, returning the created hold.  capacity is the seat count
// of the bus; out-of-range seat numbers are rejected before any state
// is touched.
func (m *Manager) Hold(ctx context.Context, key SeatKey, capacity uint32) (*model.SeatReservation, error) {
	return m.ledger.HoldIfAvailable(ctx, key, capacity, m.ttl)
}

// Release deactivates a hold.  Releasing a hold that was already
// released, expired, or never existed is a no-op: rollback paths call
// this without caring how far checkout got.
func (m *Manager) Release(ctx context.Context, holdID uint64) error {
	return m.ledger.Release(ctx, holdID)
}

// Convert finalizes a hold into the given ticket.  The hold's purpose
// of blocking concurrent buyers is superseded by the ticket, so it is
// consumed in the same critical section that creates the ticket row.
func (m *Manager) Convert(ctx context.Context, holdID uint64, t *model.Ticket) error {
	return m.ledger.Sell(ctx, holdID, t)
}

// There is no background expiry sweep.  A hold whose expiry_time has
// passed is invisible to every availability predicate even while its
// active flag is still set; the ledger reaps such rows lazily when it
// next enters the critical section.
