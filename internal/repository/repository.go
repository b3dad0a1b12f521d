package repository

import (
	"context"

	"github.com/hamkuu/fasthtml-admin/internal/model"
)

// UserRepository is the persistence contract for the user table — the sole
// source of truth for identities and credit balances.
//
// Create assigns the integer ID and must fail with apperror.ErrConflict when
// a row with the same oauth_id already exists; callers rely on that to
// detect lost duplicate-create races. List returns rows ordered by id
// ascending so the admin listing is stable between requests. UpdateCredits
// is a full replace of the balance and must fail with apperror.ErrNotFound
// (leaving the store untouched) when the id does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByOAuthID(ctx context.Context, oauthID string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateCredits(ctx context.Context, id int64, credits int64) error
}
