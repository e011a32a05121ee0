package booking

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// memStore is an in-memory Store used by the core tests.  It keeps
// the same semantics as the SQL-backed store: holds and tickets are
// rows, availability predicates apply the active and expiry clauses.
type memStore struct {
	mu           sync.Mutex
	nextHoldID   uint64
	nextTicketID uint64
	holds        map[uint64]*model.SeatReservation
	tickets      map[uint64]*model.Ticket
}

func newMemStore() *memStore {
	return &memStore{
		holds:   make(map[uint64]*model.SeatReservation),
		tickets: make(map[uint64]*model.Ticket),
	}
}

func sameKey(busID, routeID uint64, travelDate time.Time, seat uint32, key SeatKey) bool {
	return busID == key.BusID && routeID == key.RouteID &&
		seat == key.SeatNumber && travelDate.Equal(key.TravelDate)
}

func (s *memStore) HasActiveTicket(_ context.Context, key SeatKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.IsActive && sameKey(t.BusID, t.RouteID, t.TravelDate, t.SeatNumber, key) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ActiveHold(_ context.Context, key SeatKey, now time.Time) (*model.SeatReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.holds {
		if h.IsActive && h.ExpiryTime.After(now) && sameKey(h.BusID, h.RouteID, h.TravelDate, h.SeatNumber, key) {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateHold(_ context.Context, hold *model.SeatReservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHoldID++
	hold.ID = s.nextHoldID
	cp := *hold
	s.holds[hold.ID] = &cp
	return nil
}

func (s *memStore) ReleaseHold(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.holds[id]; ok {
		h.IsActive = false
	}
	return nil
}

func (s *memStore) ConsumeHold(_ context.Context, holdID, ticketID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.holds[holdID]; ok {
		tid := ticketID
		h.TicketID = &tid
		h.IsActive = false
	}
	return nil
}

func (s *memStore) ReapExpiredHolds(_ context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.holds {
		if h.IsActive && !h.ExpiryTime.After(now) {
			h.IsActive = false
		}
	}
	return nil
}

func (s *memStore) CreateTicket(_ context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTicketID++
	t.ID = s.nextTicketID
	cp := *t
	s.tickets[t.ID] = &cp
	return nil
}

func (s *memStore) TicketForClient(_ context.Context, ticketID, clientID uint64) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[ticketID]
	if !ok || !t.IsActive || t.ClientID != clientID {
		return nil, ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) DeactivateTicket(_ context.Context, ticketID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tickets[ticketID]; ok {
		t.IsActive = false
	}
	return nil
}

// Helpers for assertions.

func (s *memStore) activeHoldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.holds {
		if h.IsActive {
			n++
		}
	}
	return n
}

func (s *memStore) activeTicketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tickets {
		if t.IsActive {
			n++
		}
	}
	return n
}

// newTestTicket builds an active ticket for the given seat key.
func newTestTicket(key SeatKey) *model.Ticket {
	return &model.Ticket{
		TicketNumber:     "tn-test",
		ClientID:         1,
		RouteID:          key.RouteID,
		BusID:            key.BusID,
		DepartureStation: "Kyiv",
		ArrivalStation:   "Lviv",
		SeatNumber:       key.SeatNumber,
		PurchaseDate:     key.TravelDate.Add(-48 * time.Hour),
		TravelDate:       key.TravelDate,
		IsActive:         true,
	}
}

// memCatalog is a fixed in-memory Catalog for orchestrator tests.
type memCatalog struct {
	routes map[uint64]*model.Route
	buses  map[uint64]*model.Bus
}

func (c *memCatalog) RouteByID(_ context.Context, id uint64) (*model.Route, error) {
	r, ok := c.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}
	return r, nil
}

func (c *memCatalog) BusByID(_ context.Context, id uint64) (*model.Bus, error) {
	b, ok := c.buses[id]
	if !ok {
		return nil, ErrBusNotFound
	}
	return b, nil
}
