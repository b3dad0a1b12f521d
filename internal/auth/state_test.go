package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestStateService(t *testing.T) *StateService {
	t.Helper()
	s, err := NewStateService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewStateService: %v", err)
	}
	return s
}

func TestNewStateService_ShortSecret(t *testing.T) {
	if _, err := NewStateService("short"); err == nil {
		t.Fatal("NewStateService() should reject a short secret")
	}
}

func TestStateIssueAndValidate(t *testing.T) {
	s := newTestStateService(t)

	state, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if state == "" {
		t.Fatal("Issue() returned an empty state")
	}

	if err := s.Validate(state); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestStateValuesAreDistinct(t *testing.T) {
	s := newTestStateService(t)

	a, _ := s.Issue()
	b, _ := s.Issue()
	if a == b {
		t.Error("Issue() returned the same state twice")
	}
}

func TestStateValidate_Garbage(t *testing.T) {
	s := newTestStateService(t)

	if err := s.Validate("this.is.garbage"); err == nil {
		t.Error("Validate() accepted garbage")
	}
	if err := s.Validate(""); err == nil {
		t.Error("Validate() accepted an empty state")
	}
}

func TestStateValidate_Expired(t *testing.T) {
	s := newTestStateService(t)

	state, err := s.IssueWithDuration(-time.Minute)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	err = s.Validate(state)
	if err == nil {
		t.Fatal("Validate() accepted an expired state")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("Validate() error = %v, want an expiry error", err)
	}
}

func TestStateValidate_WrongSecret(t *testing.T) {
	s := newTestStateService(t)
	other, err := NewStateService("another-secret-16-chars-long!!!!")
	if err != nil {
		t.Fatalf("NewStateService: %v", err)
	}

	state, _ := s.Issue()
	if err := other.Validate(state); err == nil {
		t.Error("Validate() accepted a state signed with a different secret")
	}
}
