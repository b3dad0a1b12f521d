// Package service holds the business logic between the HTTP handlers and
// the user repository: identity resolution on the OAuth callback path, and
// credit mutation on the admin path.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hamkuu/fasthtml-admin/internal/apperror"
	"github.com/hamkuu/fasthtml-admin/internal/auth"
	"github.com/hamkuu/fasthtml-admin/internal/model"
	"github.com/hamkuu/fasthtml-admin/internal/repository"
)

// IdentityService turns a verified provider claim into exactly one user
// row. It runs only on the OAuth callback path.
type IdentityService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewIdentityService(users repository.UserRepository, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		users:  users,
		logger: logger,
	}
}

// Resolve finds or creates the user row for claim's subject id.
//
// Repeat login: the existing row is returned as stored — profile fields
// (email, name, picture) are set once at creation and never refreshed.
// Stale data is accepted behavior here; refreshing on login would change
// who passes the email-based admin policy.
//
// First login: a row is created with the claim's profile and zero credits.
// If the insert loses a concurrent first-login race, the store reports a
// conflict on oauth_id and we recover by looking up the winner's row; the
// race is never visible to the caller. Either way, at most one row per
// subject id exists afterwards.
func (s *IdentityService) Resolve(ctx context.Context, claim *auth.Claim) (*model.User, error) {
	if claim == nil {
		return nil, fmt.Errorf("service/identity: claim must not be nil")
	}
	if claim.SubjectID == "" {
		return nil, fmt.Errorf("service/identity: claim has no subject id")
	}

	user, err := s.users.GetByOAuthID(ctx, claim.SubjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/identity: looking up subject %s: %w", claim.SubjectID, err)
	}

	user = &model.User{
		OAuthID: claim.SubjectID,
		Email:   claim.Email,
		Name:    claim.Name,
		Picture: claim.Picture,
		Credits: 0,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// another callback for the same subject created the row first
			s.logger.Info("identity resolve lost create race, re-resolving",
				slog.String("subject", claim.SubjectID),
			)
			return s.users.GetByOAuthID(ctx, claim.SubjectID)
		}
		return nil, fmt.Errorf("service/identity: creating user for subject %s: %w", claim.SubjectID, err)
	}

	s.logger.Info("first login, user created",
		slog.Int64("userID", user.ID),
		slog.String("subject", user.OAuthID),
	)

	return user, nil
}

// GetBySubject returns the user row for an authenticated subject id. The
// profile handler uses it on every /home request.
func (s *IdentityService) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	if subject == "" {
		return nil, fmt.Errorf("service/identity: subject must not be empty")
	}

	user, err := s.users.GetByOAuthID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("service/identity: fetching subject %s: %w", subject, err)
	}

	return user, nil
}
