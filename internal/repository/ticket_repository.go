package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// TicketRepo provides read access to sold tickets for listing and
// lookup endpoints.  Writes go through the booking core's seat store
// so that every seat-state mutation passes the ledger's critical
// section.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the provided database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, ticket_number, client_id, route_id, bus_id, departure_station,
                       arrival_station, seat_number, purchase_date, travel_date, is_active`

func scanTicket(scan func(dest ...any) error) (*model.Ticket, error) {
	var t model.Ticket
	err := scan(&t.ID, &t.TicketNumber, &t.ClientID, &t.RouteID, &t.BusID,
		&t.DepartureStation, &t.ArrivalStation, &t.SeatNumber,
		&t.PurchaseDate, &t.TravelDate, &t.IsActive)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByClient returns the client's active tickets ordered by id with
// offset pagination.
func (r *TicketRepo) ListByClient(ctx context.Context, clientID uint64, skip, limit int) ([]*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + `
               FROM tickets WHERE client_id = ? AND is_active = 1 ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, clientID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDForClient fetches one ticket, enforcing ownership in the
// query itself: a ticket belonging to another client reports
// ErrTicketNotFound.  Cancelled tickets remain visible to their owner.
func (r *TicketRepo) GetByIDForClient(ctx context.Context, id, clientID uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + `
               FROM tickets WHERE id = ? AND client_id = ? LIMIT 1`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, id, clientID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

// OccupiedSeatNumbers returns the seat numbers with an active ticket
// for the given bus, route and travel date.
func (r *TicketRepo) OccupiedSeatNumbers(ctx context.Context, busID, routeID uint64, travelDate time.Time) ([]uint32, error) {
	const q = `SELECT seat_number FROM tickets
               WHERE bus_id = ? AND route_id = ? AND travel_date = ? AND is_active = 1`
	rows, err := r.db.QueryContext(ctx, q, busID, routeID, travelDate.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uint32
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
