package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// RouteRepo encapsulates database queries for routes.  The ordered
// station list is stored as a JSON array in the `stations` column;
// marshalling happens here so the rest of the code only ever sees
// []string.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo constructs a RouteRepo given a DB handle.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

func scanRoute(scan func(dest ...any) error) (*model.Route, error) {
	var (
		rt       model.Route
		stations []byte
	)
	if err := scan(&rt.ID, &rt.Name, &rt.Description, &rt.BusID,
		&rt.DepartureTime, &rt.ArrivalTime, &stations, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return nil, err
	}
	if len(stations) > 0 {
		if err := json.Unmarshal(stations, &rt.Stations); err != nil {
			return nil, err
		}
	}
	return &rt, nil
}

// Create inserts a new route.  On success the ID, CreatedAt and
// UpdatedAt fields are populated.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	stations, err := json.Marshal(rt.Stations)
	if err != nil {
		return err
	}
	const qInsert = `INSERT INTO routes (name, description, bus_id, departure_time, arrival_time, stations)
                     VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		rt.Name, rt.Description, rt.BusID, rt.DepartureTime, rt.ArrivalTime, stations)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)

	const qSelect = `SELECT created_at, updated_at FROM routes WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, rt.ID).Scan(&rt.CreatedAt, &rt.UpdatedAt)
}

// GetByID fetches a route by id, returning ErrRouteNotFound when the
// id does not exist.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	const q = `SELECT id, name, description, bus_id, departure_time, arrival_time, stations, created_at, updated_at
               FROM routes WHERE id = ?`
	rt, err := scanRoute(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return rt, nil
}

// List returns routes ordered by id with offset pagination.
func (r *RouteRepo) List(ctx context.Context, skip, limit int) ([]*model.Route, error) {
	const q = `SELECT id, name, description, bus_id, departure_time, arrival_time, stations, created_at, updated_at
               FROM routes ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Route
	for rows.Next() {
		rt, err := scanRoute(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// All returns every route.  Station-pair search filters in Go because
// stations live in a JSON column; route counts are small (one row per
// scheduled line, not per departure).
func (r *RouteRepo) All(ctx context.Context) ([]*model.Route, error) {
	const q = `SELECT id, name, description, bus_id, departure_time, arrival_time, stations, created_at, updated_at
               FROM routes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Route
	for rows.Next() {
		rt, err := scanRoute(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a route.  ErrRouteNotFound is returned when the id
// does not exist.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route) error {
	stations, err := json.Marshal(rt.Stations)
	if err != nil {
		return err
	}
	const q = `UPDATE routes SET name = ?, description = ?, bus_id = ?, departure_time = ?, arrival_time = ?, stations = ?
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		rt.Name, rt.Description, rt.BusID, rt.DepartureTime, rt.ArrivalTime, stations, rt.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM routes WHERE id = ?)`, rt.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrRouteNotFound
		}
	}
	return nil
}

// Delete removes a route.  A route with active tickets cannot be
// deleted; that case returns ErrConflict.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	var hasTickets bool
	const qCheck = `SELECT EXISTS(SELECT 1 FROM tickets WHERE route_id = ? AND is_active = 1)`
	if err := r.db.QueryRowContext(ctx, qCheck, id).Scan(&hasTickets); err != nil {
		return err
	}
	if hasTickets {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRouteNotFound
	}
	return nil
}
