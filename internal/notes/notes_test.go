// Package notes tests cover the operation core end to end against a
// temporary SQLite database.
package notes

import (
	"context"
	"testing"
	"time"

	"topicnotes/internal/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(context.Background(), t.TempDir()+"/notes.db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func testCore(t *testing.T) (*Credentials, *Sessions, *Repository) {
	t.Helper()
	d := openTestDB(t)
	return NewCredentials(d, 0), NewSessions(d, time.Hour, 0), NewRepository(d, 0)
}
