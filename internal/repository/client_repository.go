package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/bus-ticket-reservation/internal/model"
	"github.com/iliyamo/bus-ticket-reservation/internal/utils"
)

// ClientRepo provides access to the `clients` table.
type ClientRepo struct{ DB *sql.DB }

// NewClientRepo returns a ClientRepo bound to the provided database.
func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

const clientColumns = `id, username, email, password_hash, full_name, phone_number, is_active, created_at, updated_at`

func scanClient(row *sql.Row) (model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.Username, &c.Email, &c.PasswordHash,
		&c.FullName, &c.PhoneNumber, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a client with a bcrypt-hashed password and returns
// its ID.  A duplicate username or email yields ErrClientExists.
func (r *ClientRepo) Create(ctx context.Context, username, email, password, fullName, phone string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO clients (username, email, password_hash, full_name, phone_number) VALUES (?,?,?,?,?)",
		username, email, hash, fullName, phone)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrClientExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a client by login name.
func (r *ClientRepo) GetByUsername(ctx context.Context, username string) (model.Client, error) {
	username = strings.TrimSpace(username)
	return scanClient(r.DB.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE username=? LIMIT 1", username))
}

// GetByID fetches a client by id.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (model.Client, error) {
	return scanClient(r.DB.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id=? LIMIT 1", id))
}

// Exists reports whether a client row with the id is present and
// active.  Used to reject tokens referencing deleted accounts.
func (r *ClientRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM clients WHERE id=? AND is_active=1)", id).Scan(&ok)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	return ok, nil
}
