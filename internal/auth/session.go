package auth

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// SessionStore maps opaque browser-held tokens to authenticated subject
// ids, in memory. A session carries the subject id and nothing else.
//
// The store is single-instance, like the rest of this console: a mutexed
// map plus a TTL covers everything the gate needs. Tokens are random xids,
// unguessable and meaningless off-box.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration

	ticker   *time.Ticker
	stopOnce sync.Once
	done     chan struct{}
}

type session struct {
	subject   string
	expiresAt time.Time
}

// NewSessionStore creates a SessionStore whose sessions live for ttl after
// binding. Call StartSweeper to reclaim expired entries in the background;
// Subject enforces expiry either way.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
}

// Bind creates a new session for the given subject id and returns the
// opaque token to hand to the browser.
func (s *SessionStore) Bind(subject string) string {
	token := xid.New().String()

	s.mu.Lock()
	s.sessions[token] = session{
		subject:   subject,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return token
}

// Subject returns the subject id bound to token, or ("", false) if the
// token is unknown or the session has expired. An expired entry is removed
// on sight, so a stale cookie behaves exactly like no cookie.
func (s *SessionStore) Subject(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return "", false
	}

	return sess.subject, true
}

// Clear destroys the session for token. Clearing an unknown token is a
// no-op — logout must be safe to replay.
func (s *SessionStore) Clear(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len reports the number of live entries, expired or not. Used by tests and
// the sweeper log line.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartSweeper launches a goroutine that drops expired sessions every
// interval. Without it the map still behaves correctly (Subject checks
// expiry) but abandoned sessions would accumulate until shutdown.
func (s *SessionStore) StartSweeper(interval time.Duration) {
	s.ticker = time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.sweep()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop halts the sweeper goroutine. Safe to call more than once, and when
// StartSweeper was never called.
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
}

func (s *SessionStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()
}
