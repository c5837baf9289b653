package notes

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestEstablishResolveRevoke walks a token through its full lifecycle.
func TestEstablishResolveRevoke(t *testing.T) {
	ctx := context.Background()
	creds, sessions, _ := testCore(t)

	id, err := creds.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	tok, err := sessions.Establish(ctx, id)
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}

	got, err := sessions.Resolve(ctx, tok)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != id {
		t.Fatalf("Resolve returned id %d, want %d", got, id)
	}

	if err := sessions.Revoke(ctx, tok); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := sessions.Resolve(ctx, tok); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after revoke, got: %v", err)
	}
	// Revoking again is a no-op.
	if err := sessions.Revoke(ctx, tok); err != nil {
		t.Fatalf("Revoke (repeat): %v", err)
	}
}

// TestResolveUnknownToken rejects empty and never-issued tokens.
func TestResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	_, sessions, _ := testCore(t)

	if _, err := sessions.Resolve(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("empty token: expected ErrUnauthenticated, got: %v", err)
	}
	if _, err := sessions.Resolve(ctx, "no-such-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("unknown token: expected ErrUnauthenticated, got: %v", err)
	}
}

// TestResolveExpiredToken rejects a token past its TTL.
func TestResolveExpiredToken(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	creds := NewCredentials(d, 0)
	sessions := NewSessions(d, time.Hour, 0)

	id, err := creds.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Insert a session that is already expired.
	if err := d.CreateSession(ctx, "stale", id, -time.Minute); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := sessions.Resolve(ctx, "stale"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got: %v", err)
	}
}

// TestResolveAfterRemove invalidates tokens once their user is gone.
func TestResolveAfterRemove(t *testing.T) {
	ctx := context.Background()
	creds, sessions, _ := testCore(t)

	id, err := creds.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	tok, err := sessions.Establish(ctx, id)
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if err := creds.Remove(ctx, id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := sessions.Resolve(ctx, tok); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after user removal, got: %v", err)
	}
}

// TestSweep removes only expired sessions.
func TestSweep(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	creds := NewCredentials(d, 0)
	sessions := NewSessions(d, time.Hour, 0)

	id, err := creds.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	tok, err := sessions.Establish(ctx, id)
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if err := d.CreateSession(ctx, "stale", id, -time.Minute); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	n, err := sessions.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 swept session, got %d", n)
	}
	if _, err := sessions.Resolve(ctx, tok); err != nil {
		t.Fatalf("live session should survive sweep: %v", err)
	}
}
