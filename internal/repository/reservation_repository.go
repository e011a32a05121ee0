package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReservationRepo provides read access to seat holds for availability
// listings.  Hold writes go through the booking core's seat store.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// HeldSeatNumbers returns the seat numbers with a live hold (active
// and unexpired) for the given bus, route and travel date.  The
// expiry clause is part of the predicate, so holds whose TTL elapsed
// never show up even when their active flag was not yet cleared.
func (r *ReservationRepo) HeldSeatNumbers(ctx context.Context, busID, routeID uint64, travelDate, now time.Time) ([]uint32, error) {
	const q = `SELECT seat_number FROM seat_reservations
               WHERE bus_id = ? AND route_id = ? AND travel_date = ?
                 AND is_active = 1 AND expiry_time > ?`
	rows, err := r.db.QueryContext(ctx, q, busID, routeID, travelDate.UTC(), now.UTC())
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
