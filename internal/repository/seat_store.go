package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/bus-ticket-reservation/internal/booking"
	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// SeatStore is the MySQL implementation of booking.Store.  The
// booking ledger serializes calls into this type, so the statements
// here run one at a time per process.  For a multi-instance
// deployment the schema must additionally carry a unique index over
// (bus_id, route_id, travel_date, seat_number) restricted to active
// rows on both tables, so the at-most-one invariant is enforced by
// the database and a duplicate insert surfaces as error 1062.
type SeatStore struct {
	db *sql.DB
}

// NewSeatStore returns a SeatStore bound to the provided database.
func NewSeatStore(db *sql.DB) *SeatStore { return &SeatStore{db: db} }

// HasActiveTicket reports whether an active ticket occupies the seat.
func (s *SeatStore) HasActiveTicket(ctx context.Context, key booking.SeatKey) (bool, error) {
	const q = `SELECT EXISTS(
                 SELECT 1 FROM tickets
                 WHERE bus_id = ? AND route_id = ? AND travel_date = ? AND seat_number = ? AND is_active = 1)`
	var sold bool
	err := s.db.QueryRowContext(ctx, q, key.BusID, key.RouteID, key.TravelDate, key.SeatNumber).Scan(&sold)
	return sold, err
}

// ActiveHold returns the live hold for the seat, or nil when none
// exists.  The predicate pairs is_active with the expiry clause.
func (s *SeatStore) ActiveHold(ctx context.Context, key booking.SeatKey, now time.Time) (*model.SeatReservation, error) {
	const q = `SELECT id, ticket_id, bus_id, route_id, seat_number, travel_date,
                      reservation_time, expiry_time, is_active
               FROM seat_reservations
               WHERE bus_id = ? AND route_id = ? AND travel_date = ? AND seat_number = ?
                 AND is_active = 1 AND expiry_time > ?
               LIMIT 1`
	var (
		h        model.SeatReservation
		ticketID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, q, key.BusID, key.RouteID, key.TravelDate, key.SeatNumber, now.UTC()).
		Scan(&h.ID, &ticketID, &h.BusID, &h.RouteID, &h.SeatNumber, &h.TravelDate,
			&h.ReservationTime, &h.ExpiryTime, &h.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if ticketID.Valid {
		tid := uint64(ticketID.Int64)
		h.TicketID = &tid
	}
	return &h, nil
}

// CreateHold inserts a hold row and populates its ID.
func (s *SeatStore) CreateHold(ctx context.Context, hold *model.SeatReservation) error {
	const q = `INSERT INTO seat_reservations
                 (bus_id, route_id, seat_number, travel_date, reservation_time, expiry_time, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q,
		hold.BusID, hold.RouteID, hold.SeatNumber, hold.TravelDate,
		hold.ReservationTime, hold.ExpiryTime, hold.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	hold.ID = uint64(id)
	return nil
}

// ReleaseHold deactivates a hold.  The is_active guard makes the
// statement idempotent: repeated releases and releases of unknown ids
// affect zero rows and succeed.
func (s *SeatStore) ReleaseHold(ctx context.Context, id uint64) error {
	const q = `UPDATE seat_reservations SET is_active = 0 WHERE id = ? AND is_active = 1`
	_, err := s.db.ExecContext(ctx, q, id)
	return err
}

// ConsumeHold links the hold to its ticket and deactivates it.
func (s *SeatStore) ConsumeHold(ctx context.Context, holdID, ticketID uint64) error {
	const q = `UPDATE seat_reservations SET is_active = 0, ticket_id = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, ticketID, holdID)
	return err
}

// ReapExpiredHolds clears the active flag of holds past expiry.
func (s *SeatStore) ReapExpiredHolds(ctx context.Context, now time.Time) error {
	const q = `UPDATE seat_reservations SET is_active = 0 WHERE is_active = 1 AND expiry_time <= ?`
	_, err := s.db.ExecContext(ctx, q, now.UTC())
	return err
}

// CreateTicket inserts a ticket row and populates its ID.
func (s *SeatStore) CreateTicket(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets
                 (ticket_number, client_id, route_id, bus_id, departure_station, arrival_station,
                  seat_number, purchase_date, travel_date, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q,
		t.TicketNumber, t.ClientID, t.RouteID, t.BusID, t.DepartureStation, t.ArrivalStation,
		t.SeatNumber, t.PurchaseDate, t.TravelDate, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// TicketForClient returns the active ticket when it belongs to the
// client, translating absence into booking.ErrTicketNotFound.
func (s *SeatStore) TicketForClient(ctx context.Context, ticketID, clientID uint64) (*model.Ticket, error) {
	const q = `SELECT id, ticket_number, client_id, route_id, bus_id, departure_station,
                      arrival_station, seat_number, purchase_date, travel_date, is_active
               FROM tickets WHERE id = ? AND client_id = ? AND is_active = 1 LIMIT 1`
	var t model.Ticket
	err := s.db.QueryRowContext(ctx, q, ticketID, clientID).Scan(
		&t.ID, &t.TicketNumber, &t.ClientID, &t.RouteID, &t.BusID,
		&t.DepartureStation, &t.ArrivalStation, &t.SeatNumber,
		&t.PurchaseDate, &t.TravelDate, &t.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// DeactivateTicket soft-deletes a ticket.
func (s *SeatStore) DeactivateTicket(ctx context.Context, ticketID uint64) error {
	const q = `UPDATE tickets SET is_active = 0 WHERE id = ? AND is_active = 1`
	_, err := s.db.ExecContext(ctx, q, ticketID)
	return err
}
