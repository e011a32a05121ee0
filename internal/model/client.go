package model

import "time"

// Client represents a registered passenger account as stored in the
// `clients` table.  Only the bcrypt hash of the password is kept.
// Handlers define separate response types with JSON tags; these
// structs are used by the repository layer.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – passenger's full name.
//  PhoneNumber  – contact phone number.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Client struct {
	ID           uint64    // clients.id
	Username     string    // clients.username
	Email        string    // clients.email
	PasswordHash string    // clients.password_hash
	FullName     string    // clients.full_name
	PhoneNumber  string    // clients.phone_number
	IsActive     bool      // clients.is_active
	CreatedAt    time.Time // clients.created_at
	UpdatedAt    time.Time // clients.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a client and contains metadata for expiry
// and revocation.  The plain token is never stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  ClientID  – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	ClientID  uint64     // refresh_tokens.client_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
