package auth

import (
	"testing"
	"time"
)

func TestSessionBindAndSubject(t *testing.T) {
	store := NewSessionStore(time.Hour)

	token := store.Bind("g-123")
	if token == "" {
		t.Fatal("Bind() returned an empty token")
	}

	subject, ok := store.Subject(token)
	if !ok {
		t.Fatal("Subject() did not find a freshly bound session")
	}
	if subject != "g-123" {
		t.Errorf("subject = %q, want %q", subject, "g-123")
	}
}

func TestSessionTokensAreDistinct(t *testing.T) {
	store := NewSessionStore(time.Hour)

	// two logins for the same subject get independent sessions
	t1 := store.Bind("g-123")
	t2 := store.Bind("g-123")
	if t1 == t2 {
		t.Error("Bind() returned the same token twice")
	}

	store.Clear(t1)
	if _, ok := store.Subject(t2); !ok {
		t.Error("clearing one session destroyed another")
	}
}

func TestSessionUnknownToken(t *testing.T) {
	store := NewSessionStore(time.Hour)

	if _, ok := store.Subject("never-issued"); ok {
		t.Error("Subject() accepted a token the store never issued")
	}
}

func TestSessionClear(t *testing.T) {
	store := NewSessionStore(time.Hour)

	token := store.Bind("g-123")
	store.Clear(token)

	if _, ok := store.Subject(token); ok {
		t.Error("Subject() found a cleared session")
	}

	// clearing again must be a no-op (logout is replayable)
	store.Clear(token)
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(10 * time.Millisecond)

	token := store.Bind("g-123")
	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Subject(token); ok {
		t.Error("Subject() accepted an expired session")
	}
	// the expired entry is dropped on lookup
	if store.Len() != 0 {
		t.Errorf("Len() after expired lookup = %d, want 0", store.Len())
	}
}

func TestSessionSweeper(t *testing.T) {
	store := NewSessionStore(5 * time.Millisecond)
	store.StartSweeper(10 * time.Millisecond)
	defer store.Stop()

	store.Bind("g-1")
	store.Bind("g-2")

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if n := store.Len(); n != 0 {
		t.Errorf("sweeper left %d expired sessions behind", n)
	}
}
