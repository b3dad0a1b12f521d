package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/hamkuu/fasthtml-admin/internal/apperror"
	"github.com/hamkuu/fasthtml-admin/internal/model"
)

func newTestCreditService(repo *fakeUserRepo) *CreditService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewCreditService(repo, logger)
}

func seedUser(t *testing.T, repo *fakeUserRepo, oauthID string) *model.User {
	t.Helper()
	user := &model.User{OAuthID: oauthID, Email: oauthID + "@example.com"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

func TestSetCredits(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestCreditService(repo)
	user := seedUser(t, repo, "g-1")

	tests := []struct {
		name  string
		value int64
	}{
		{"positive", 50},
		{"zero", 0},
		{"negative", -25}, // no floor: negative balances are stored as-is
		{"large", 1 << 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.SetCredits(context.Background(), user.ID, tt.value)
			if err != nil {
				t.Fatalf("SetCredits(%d) error = %v", tt.value, err)
			}
			if updated.Credits != tt.value {
				t.Errorf("returned Credits = %d, want %d", updated.Credits, tt.value)
			}

			stored, err := repo.GetByID(context.Background(), user.ID)
			if err != nil {
				t.Fatalf("GetByID() after update: %v", err)
			}
			if stored.Credits != tt.value {
				t.Errorf("stored Credits = %d, want %d", stored.Credits, tt.value)
			}
		})
	}
}

// SetCredits is a full replace: the caller supplies the complete balance,
// and consecutive writes do not accumulate.
func TestSetCredits_FullReplaceNotDelta(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestCreditService(repo)
	user := seedUser(t, repo, "g-1")

	if _, err := svc.SetCredits(context.Background(), user.ID, 50); err != nil {
		t.Fatalf("SetCredits(50): %v", err)
	}
	updated, err := svc.SetCredits(context.Background(), user.ID, 40)
	if err != nil {
		t.Fatalf("SetCredits(40): %v", err)
	}
	if updated.Credits != 40 {
		t.Errorf("Credits = %d, want 40 (replace, not 90)", updated.Credits)
	}
}

func TestSetCredits_NotFound(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestCreditService(repo)
	bystander := seedUser(t, repo, "g-bystander")

	_, err := svc.SetCredits(context.Background(), 999, 100)
	if err == nil {
		t.Fatal("SetCredits() should fail for an unknown id")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	// the miss leaves other rows untouched
	stored, err := repo.GetByID(context.Background(), bystander.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Credits != 0 {
		t.Errorf("bystander Credits = %d, want 0", stored.Credits)
	}
}
