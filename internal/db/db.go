// Package db provides SQLite-backed persistence for topicnotes.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the underlying sql.DB handle. All access to the users, topics,
// entries, and sessions relations goes through its methods.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the database at path, applies pragmas, and
// runs pending migrations.
func Open(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("db path is required")
	}

	// modernc SQLite accepts URI-style DSNs; plain file paths work too.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
	s, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single writer connection keeps concurrent inserts serialized instead
	// of surfacing SQLITE_BUSY to callers.
	s.SetMaxOpenConns(1)
	s.SetMaxIdleConns(1)
	s.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.PingContext(pingCtx); err != nil {
		_ = s.Close()
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	} {
		if _, err := s.ExecContext(ctx, pragma); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	if err := Migrate(ctx, s); err != nil {
		_ = s.Close()
		return nil, err
	}

	return &DB{sql: s}, nil
}

func (d *DB) Close() error {
	return d.sql.Close()
}

// IsUniqueViolation reports whether err is a SQLite unique-constraint
// failure. modernc/sqlite surfaces constraint errors as strings.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsBusy reports whether err is a transient SQLite lock error.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "database is locked") ||
		strings.Contains(s, "sqlite_busy") ||
		strings.Contains(s, "busy")
}
