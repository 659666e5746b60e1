// Package session carries authentication state for the remote services as an
// explicit object. Services that need a token receive a *Session; there is no
// package-level ambient state.
package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// RefreshFunc obtains a fresh token from the auth backend. It returns the
// token and its expiry time.
type RefreshFunc func(ctx context.Context) (token string, expiresAt time.Time, err error)

// Session is a concurrency-safe holder of the current auth token. A zero
// token means unauthenticated; adapters then send requests without an
// Authorization header.
type Session struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	refresh   RefreshFunc
}

// New creates a session seeded with a static token. A nil refresh func is
// allowed; Refresh then reports an error and the token stays as seeded.
func New(token string, refresh RefreshFunc) *Session {
	return &Session{token: token, refresh: refresh}
}

// Token returns the current token, which may be empty.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Valid reports whether a token is present and not known to be expired.
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return false
	}
	return s.expiresAt.IsZero() || time.Now().Before(s.expiresAt)
}

// Invalidate forgets the current token. The next Refresh must obtain a new
// one.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}

// Refresh replaces the token via the configured refresh func. On error the
// previous token is kept unchanged.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.RLock()
	refresh := s.refresh
	s.mu.RUnlock()

	if refresh == nil {
		return fmt.Errorf("no refresh func configured")
	}
	token, expiresAt, err := refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()
	return nil
}

// Authorize sets the bearer token on an outgoing request when one is present.
func (s *Session) Authorize(req *http.Request) {
	if token := s.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
