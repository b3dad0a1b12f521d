package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/hamkuu/fasthtml-admin/internal/apperror"
	"github.com/hamkuu/fasthtml-admin/internal/model"
	"github.com/hamkuu/fasthtml-admin/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user row and fills in the store-assigned ID and
// CreatedAt on the caller's struct.
//
// If a row with the same oauth_id already exists, the UNIQUE constraint
// rejects the insert and we return apperror.ErrConflict. The identity
// resolver depends on this: under a concurrent first login, exactly one
// Create wins and the loser re-resolves by lookup.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (oauth_id, email, name, picture, credits, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.OAuthID,
		user.Email,
		user.Name,
		user.Picture,
		user.Credits,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.OAuthID)
		}
		return fmt.Errorf("sqlite: inserting user (oauthID=%s): %w", user.OAuthID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

// GetByID retrieves a user by their store-assigned ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, oauth_id, email, name, picture, credits, created_at
		 FROM users WHERE id = ?`,
		strconv.FormatInt(id, 10), id)
}

// GetByOAuthID retrieves a user by the provider's subject identifier.
// Returns apperror.ErrNotFound if no user exists with that oauth_id.
func (db *DB) GetByOAuthID(ctx context.Context, oauthID string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, oauth_id, email, name, picture, credits, created_at
		 FROM users WHERE oauth_id = ?`,
		oauthID, oauthID)
}

func (db *DB) getUser(ctx context.Context, query, key string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.OAuthID,
		&u.Email,
		&u.Name,
		&u.Picture,
		&u.Credits,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", key, err)
	}

	return &u, nil
}

// List returns every user row ordered by id ascending, so the admin listing
// is deterministic between requests over the same data.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, oauth_id, email, name, picture, credits, created_at
		 FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID,
			&u.OAuthID,
			&u.Email,
			&u.Name,
			&u.Picture,
			&u.Credits,
			&u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}

	return users, nil
}

// UpdateCredits overwrites one user's credit balance with the given value.
//
// This is a single UPDATE statement on purpose: concurrent edits to the
// same row collapse to write ordering inside SQLite (last writer wins, the
// documented policy) instead of an unguarded read-modify-write in Go. The
// value is stored as supplied — negative balances included.
func (db *DB) UpdateCredits(ctx context.Context, id int64, credits int64) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET credits = ? WHERE id = ?`, credits, id)
	if err != nil {
		return fmt.Errorf("sqlite: updating credits for user %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking credits update for user %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", strconv.FormatInt(id, 10))
	}

	return nil
}
