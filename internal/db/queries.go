// Package db contains query helpers for the topicnotes relations.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// nowUnix returns the current Unix timestamp in seconds.
func nowUnix() int64 { return time.Now().Unix() }

// CreateUser inserts a new user and returns its ID. A duplicate username
// fails with the UNIQUE constraint error; callers detect it with
// IsUniqueViolation.
func (d *DB) CreateUser(ctx context.Context, username, secretHash string) (int64, error) {
	if username == "" || secretHash == "" {
		return 0, errors.New("username and secret hash are required")
	}
	res, err := d.sql.ExecContext(ctx, `
INSERT INTO users(username, secret_hash, created_at) VALUES(?, ?, ?)
`, username, secretHash, nowUnix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UserByUsername looks up a user by exact (case-sensitive) username.
func (d *DB) UserByUsername(ctx context.Context, username string) (*User, bool, error) {
	var u User
	err := d.sql.QueryRowContext(ctx, `
SELECT id, username, secret_hash, created_at FROM users WHERE username = ?
`, username).Scan(&u.ID, &u.Username, &u.SecretHash, &u.CreatedAt)
	if err == nil {
		return &u, true, nil
	}
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	return nil, false, err
}

// UserByID looks up a user by ID.
func (d *DB) UserByID(ctx context.Context, id int64) (*User, bool, error) {
	var u User
	err := d.sql.QueryRowContext(ctx, `
SELECT id, username, secret_hash, created_at FROM users WHERE id = ?
`, id).Scan(&u.ID, &u.Username, &u.SecretHash, &u.CreatedAt)
	if err == nil {
		return &u, true, nil
	}
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	return nil, false, err
}

// DeleteUser removes a user row together with every session bound to it, in
// one transaction. Callers never observe a deleted account that still has a
// live session. Deleting an unknown ID is a no-op.
func (d *DB) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid user id")
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateSession inserts a session token with an expiry ttl from now.
func (d *DB) CreateSession(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	if token == "" || userID <= 0 {
		return errors.New("invalid session")
	}
	now := nowUnix()
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO sessions(token, user_id, created_at, expires_at) VALUES(?, ?, ?, ?)
`, token, userID, now, now+int64(ttl.Seconds()))
	return err
}

// SessionByToken looks up a session by token.
func (d *DB) SessionByToken(ctx context.Context, token string) (*Session, bool, error) {
	var s Session
	err := d.sql.QueryRowContext(ctx, `
SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?
`, token).Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err == nil {
		return &s, true, nil
	}
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	return nil, false, err
}

// DeleteSession removes a session by token. Unknown tokens are a no-op.
func (d *DB) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token is required")
	}
	_, err := d.sql.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// DeleteExpiredSessions removes sessions whose expiry is at or before now.
func (d *DB) DeleteExpiredSessions(ctx context.Context, now int64) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateTopic inserts a topic and returns its ID. Names are not unique;
// duplicates are allowed.
func (d *DB) CreateTopic(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("topic name is required")
	}
	res, err := d.sql.ExecContext(ctx, `
INSERT INTO topics(name, created_at) VALUES(?, ?)
`, name, nowUnix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListTopics returns all topics in ascending ID order, which matches
// insertion order.
func (d *DB) ListTopics(ctx context.Context) ([]Topic, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT id, name, created_at FROM topics ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateEntry inserts an entry under a topic. The boolean reports whether the
// topic exists; when it does not, no row is inserted. The existence check and
// the insert share a transaction so a concurrent topic delete cannot slip an
// orphan row in between.
func (d *DB) CreateEntry(ctx context.Context, topicID int64, content string) (int64, bool, error) {
	if topicID <= 0 {
		return 0, false, nil
	}
	if content == "" {
		return 0, false, errors.New("entry content is required")
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM topics WHERE id = ?`, topicID).Scan(&one)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO entries(topic_id, content, created_at) VALUES(?, ?, ?)
`, topicID, content, nowUnix())
	if err != nil {
		return 0, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return id, true, tx.Commit()
}

// ListEntries returns a topic's entries in ascending ID order. An unknown
// topic yields an empty slice, not an error.
func (d *DB) ListEntries(ctx context.Context, topicID int64) ([]Entry, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT id, topic_id, content, created_at FROM entries WHERE topic_id = ? ORDER BY id ASC
`, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TopicID, &e.Content, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EntryByID looks up an entry by ID, scoped to a topic. An entry reached
// through the wrong topic is reported as absent.
func (d *DB) EntryByID(ctx context.Context, topicID, entryID int64) (*Entry, bool, error) {
	var e Entry
	err := d.sql.QueryRowContext(ctx, `
SELECT id, topic_id, content, created_at FROM entries WHERE id = ? AND topic_id = ?
`, entryID, topicID).Scan(&e.ID, &e.TopicID, &e.Content, &e.CreatedAt)
	if err == nil {
		return &e, true, nil
	}
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	return nil, false, err
}
