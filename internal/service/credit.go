package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hamkuu/fasthtml-admin/internal/model"
	"github.com/hamkuu/fasthtml-admin/internal/repository"
)

// CreditService applies credit-balance changes. Its only callers sit behind
// the session gate and the admin policy.
type CreditService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewCreditService(users repository.UserRepository, logger *slog.Logger) *CreditService {
	return &CreditService{
		users:  users,
		logger: logger,
	}
}

// SetCredits overwrites the target user's balance with credits and returns
// the updated row.
//
// This is a full replace, not a delta: the admin form submits the complete
// new balance. No range check is applied — zero and negative values are
// stored as-is (whether negative balances mean debt is an open product
// question; the service does not invent a floor). A missing id comes back
// as apperror.ErrNotFound with the store untouched — a reportable outcome,
// not a fault.
func (s *CreditService) SetCredits(ctx context.Context, id int64, credits int64) (*model.User, error) {
	if err := s.users.UpdateCredits(ctx, id, credits); err != nil {
		return nil, fmt.Errorf("service/credit: setting credits for user %d: %w", id, err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/credit: re-reading user %d: %w", id, err)
	}

	s.logger.Info("credits updated",
		slog.Int64("userID", id),
		slog.Int64("credits", credits),
	)

	return user, nil
}
