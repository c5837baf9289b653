// Package db defines persistence models for topicnotes.
package db

// User is a registered account. SecretHash holds the argon2id PHC string,
// never a raw secret.
type User struct {
	ID         int64
	Username   string
	SecretHash string
	CreatedAt  int64
}

// Topic is a named bucket entries are filed under. Topics have no owner;
// every authenticated user sees the same set.
type Topic struct {
	ID        int64
	Name      string
	CreatedAt int64
}

// Entry is a free-text note belonging to exactly one topic.
type Entry struct {
	ID        int64
	TopicID   int64
	Content   string
	CreatedAt int64
}

// Session binds an opaque token to a user until it expires or is revoked.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt int64
	ExpiresAt int64
}
