package notes

import (
	"context"
	"time"

	"topicnotes/internal/auth"
	"topicnotes/internal/db"
)

// tokenBytes is the entropy of a session token before encoding.
const tokenBytes = 32

// DefaultSessionTTL applies when no TTL is configured.
const DefaultSessionTTL = 12 * time.Hour

// Sessions is the session authority. It owns the mapping from a live token
// to a user ID; the user row itself stays owned by Credentials.
type Sessions struct {
	db      *db.DB
	ttl     time.Duration
	timeout time.Duration
}

func NewSessions(d *db.DB, ttl, timeout time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{db: d, ttl: ttl, timeout: timeout}
}

// TTL returns the configured session lifetime.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Establish issues a fresh token bound to userID. It is called only after a
// successful Verify.
func (s *Sessions) Establish(ctx context.Context, userID int64) (string, error) {
	tok, err := auth.NewToken(tokenBytes)
	if err != nil {
		return "", err
	}
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	if err := s.db.CreateSession(ctx, tok, userID, s.ttl); err != nil {
		return "", storeErr(err)
	}
	return tok, nil
}

// Resolve maps a token to its user ID. It fails with ErrUnauthenticated for
// an empty, unknown, or expired token, and for a token whose user no longer
// exists (the user row is consulted on every call).
func (s *Sessions) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	sess, found, err := s.db.SessionByToken(ctx, token)
	if err != nil {
		return 0, storeErr(err)
	}
	if !found || sess.ExpiresAt <= time.Now().Unix() {
		return 0, ErrUnauthenticated
	}

	_, found, err = s.db.UserByID(ctx, sess.UserID)
	if err != nil {
		return 0, storeErr(err)
	}
	if !found {
		return 0, ErrUnauthenticated
	}
	return sess.UserID, nil
}

// Revoke invalidates a token immediately. Revoking an unknown or empty
// token is a no-op.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return storeErr(s.db.DeleteSession(ctx, token))
}

// Sweep deletes expired sessions and returns how many were removed. The
// server runs it periodically; Resolve does not depend on it for
// correctness.
func (s *Sessions) Sweep(ctx context.Context) (int64, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	n, err := s.db.DeleteExpiredSessions(ctx, time.Now().Unix())
	return n, storeErr(err)
}
