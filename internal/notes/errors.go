// Package notes implements the topicnotes operation core: credential
// storage, session authority, and the topic/entry repository.
//
// All operations take a context, are bounded by a store timeout, and fail
// with one of the sentinel errors below. Raw storage errors for integrity
// violations never escape this package.
package notes

import "errors"

var (
	// ErrDuplicateUsername reports a registration against a taken username.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrAuthFailed reports a failed credential check. It is deliberately
	// identical for an unknown username and a wrong secret.
	ErrAuthFailed = errors.New("invalid username or secret")

	// ErrUnauthenticated reports a missing, expired, revoked, or orphaned
	// session token.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrTopicNotFound reports an operation against a nonexistent topic.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrEntryNotFound reports a lookup of an entry that does not exist
	// under the given topic.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrStoreUnavailable reports a store operation that timed out or hit a
	// transient lock, instead of blocking indefinitely.
	ErrStoreUnavailable = errors.New("store unavailable")
)
