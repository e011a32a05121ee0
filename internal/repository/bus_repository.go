package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
)

// BusRepo encapsulates all database queries related to buses.
type BusRepo struct {
	db *sql.DB
}

// NewBusRepo constructs a BusRepo with the provided DB handle.
func NewBusRepo(db *sql.DB) *BusRepo { return &BusRepo{db: db} }

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// Create inserts a new bus.  On success the ID, CreatedAt and
// UpdatedAt fields are populated.  A duplicate registration number
// yields ErrRegistrationExists.
func (r *BusRepo) Create(ctx context.Context, b *model.Bus) error {
	const qInsert = `INSERT INTO buses (registration_number, model, capacity, is_active)
                     VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, b.RegistrationNumber, b.Model, b.Capacity, b.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return ErrRegistrationExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = `SELECT created_at, updated_at FROM buses WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches an active bus by its ID.  It returns ErrBusNotFound
// when no row exists or the bus was soft-deleted.
func (r *BusRepo) GetByID(ctx context.Context, id uint64) (*model.Bus, error) {
	const q = `SELECT id, registration_number, model, capacity, is_active, created_at, updated_at
               FROM buses WHERE id = ? AND is_active = 1`
	var b model.Bus
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.RegistrationNumber, &b.Model, &b.Capacity, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns active buses ordered by id with offset pagination.
func (r *BusRepo) List(ctx context.Context, skip, limit int) ([]*model.Bus, error) {
	const q = `SELECT id, registration_number, model, capacity, is_active, created_at, updated_at
               FROM buses WHERE is_active = 1 ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Bus
	for rows.Next() {
		b := new(model.Bus)
		if err := rows.Scan(&b.ID, &b.RegistrationNumber, &b.Model, &b.Capacity, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of a bus.  ErrBusNotFound is
// returned when the id does not exist; a registration number already
// used by another bus yields ErrRegistrationExists.
func (r *BusRepo) Update(ctx context.Context, b *model.Bus) error {
	const q = `UPDATE buses SET registration_number = ?, model = ?, capacity = ?, is_active = ?
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.RegistrationNumber, b.Model, b.Capacity, b.IsActive, b.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrRegistrationExists
		}
		return err
	}
	// RowsAffected is zero both when the row is missing and when the
	// update was a no-op, so confirm existence explicitly.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM buses WHERE id = ?)`, b.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrBusNotFound
		}
	}
	return nil
}

// Deactivate soft-deletes a bus.  Returns ErrBusNotFound when the bus
// does not exist or was already deactivated.
func (r *BusRepo) Deactivate(ctx context.Context, id uint64) error {
	const q = `UPDATE buses SET is_active = 0 WHERE id = ? AND is_active = 1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBusNotFound
	}
	return nil
}
