package notes

import (
	"context"
	"sync"
	"time"

	"topicnotes/internal/auth"
	"topicnotes/internal/db"
)

// Credentials owns user records: registration, verification, removal.
type Credentials struct {
	db      *db.DB
	timeout time.Duration
}

func NewCredentials(d *db.DB, timeout time.Duration) *Credentials {
	return &Credentials{db: d, timeout: timeout}
}

// decoyHash is verified against when a username does not exist, so an
// unknown user and a wrong secret cost the same and fail the same way.
var decoyHash = sync.OnceValue(func() string {
	h, err := auth.HashSecret("decoy")
	if err != nil {
		return ""
	}
	return h
})

// Register hashes the secret and inserts a new user, returning its ID.
// A taken username fails with ErrDuplicateUsername; the raw constraint
// error never leaves this boundary.
func (c *Credentials) Register(ctx context.Context, username, secret string) (int64, error) {
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return 0, err
	}

	ctx, cancel := opContext(ctx, c.timeout)
	defer cancel()

	id, err := c.db.CreateUser(ctx, username, hash)
	if db.IsUniqueViolation(err) {
		return 0, ErrDuplicateUsername
	}
	if err != nil {
		return 0, storeErr(err)
	}
	return id, nil
}

// Verify checks a username/secret pair and returns the matching user ID,
// or ErrAuthFailed. The error does not reveal whether the username exists.
func (c *Credentials) Verify(ctx context.Context, username, secret string) (int64, error) {
	ctx, cancel := opContext(ctx, c.timeout)
	defer cancel()

	u, found, err := c.db.UserByUsername(ctx, username)
	if err != nil {
		return 0, storeErr(err)
	}
	if !found {
		// Burn a comparable verification anyway.
		_, _ = auth.VerifySecret(secret, decoyHash())
		return 0, ErrAuthFailed
	}

	ok, err := auth.VerifySecret(secret, u.SecretHash)
	if err != nil || !ok {
		return 0, ErrAuthFailed
	}
	return u.ID, nil
}

// Remove deletes a user and, atomically with it, every session bound to the
// user. Removing an unknown ID is not an error.
func (c *Credentials) Remove(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return nil
	}
	ctx, cancel := opContext(ctx, c.timeout)
	defer cancel()
	return storeErr(c.db.DeleteUser(ctx, userID))
}
