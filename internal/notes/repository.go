package notes

import (
	"context"
	"time"

	"topicnotes/internal/db"
)

// Repository owns topics and entries. Operations require a resolved
// identity upstream but do not vary by it; content is a shared namespace.
type Repository struct {
	db      *db.DB
	timeout time.Duration
}

func NewRepository(d *db.DB, timeout time.Duration) *Repository {
	return &Repository{db: d, timeout: timeout}
}

// CreateTopic inserts a topic unconditionally and returns its ID. Names are
// not unique.
func (r *Repository) CreateTopic(ctx context.Context, name string) (int64, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()
	id, err := r.db.CreateTopic(ctx, name)
	return id, storeErr(err)
}

// ListTopics returns all topics in ascending ID order (insertion order).
// The result is never nil.
func (r *Repository) ListTopics(ctx context.Context) ([]db.Topic, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()
	topics, err := r.db.ListTopics(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if topics == nil {
		topics = []db.Topic{}
	}
	return topics, nil
}

// CreateEntry files content under a topic and returns the entry ID. A
// nonexistent topic fails with ErrTopicNotFound; no orphan row is written.
func (r *Repository) CreateEntry(ctx context.Context, topicID int64, content string) (int64, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()
	id, topicExists, err := r.db.CreateEntry(ctx, topicID, content)
	if err != nil {
		return 0, storeErr(err)
	}
	if !topicExists {
		return 0, ErrTopicNotFound
	}
	return id, nil
}

// ListEntries returns a topic's entries in ascending ID order. An unknown
// topic yields an empty list, not an error.
func (r *Repository) ListEntries(ctx context.Context, topicID int64) ([]db.Entry, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()
	entries, err := r.db.ListEntries(ctx, topicID)
	if err != nil {
		return nil, storeErr(err)
	}
	if entries == nil {
		entries = []db.Entry{}
	}
	return entries, nil
}

// GetEntry returns an entry by ID, scoped to its topic. An entry reached
// through a topic it does not belong to fails with ErrEntryNotFound.
func (r *Repository) GetEntry(ctx context.Context, topicID, entryID int64) (*db.Entry, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()
	e, found, err := r.db.EntryByID(ctx, topicID, entryID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !found {
		return nil, ErrEntryNotFound
	}
	return e, nil
}
