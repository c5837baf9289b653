package notes

import (
	"context"
	"errors"
	"testing"
)

// TestCreateAndListEntries files an entry under a topic and reads it back.
func TestCreateAndListEntries(t *testing.T) {
	ctx := context.Background()
	_, _, repo := testCore(t)

	topicID, err := repo.CreateTopic(ctx, "Health")
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	entryID, err := repo.CreateEntry(ctx, topicID, "slept 8h")
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	entries, err := repo.ListEntries(ctx, topicID)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entryID || entries[0].Content != "slept 8h" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

// TestCreateEntryUnknownTopic fails with ErrTopicNotFound and writes nothing.
func TestCreateEntryUnknownTopic(t *testing.T) {
	ctx := context.Background()
	_, _, repo := testCore(t)

	if _, err := repo.CreateEntry(ctx, 999, "x"); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got: %v", err)
	}
}

// TestListEntriesUnknownTopic yields an empty list, not an error.
func TestListEntriesUnknownTopic(t *testing.T) {
	ctx := context.Background()
	_, _, repo := testCore(t)

	entries, err := repo.ListEntries(ctx, 999)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil list, got: %#v", entries)
	}
}

// TestListTopicsEmptyAndOrdered covers the empty case and id ordering.
func TestListTopicsEmptyAndOrdered(t *testing.T) {
	ctx := context.Background()
	_, _, repo := testCore(t)

	topics, err := repo.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if topics == nil || len(topics) != 0 {
		t.Fatalf("expected empty non-nil list, got: %#v", topics)
	}

	var ids []int64
	for _, name := range []string{"Health", "Work", "Health"} {
		id, err := repo.CreateTopic(ctx, name)
		if err != nil {
			t.Fatalf("CreateTopic(%q): %v", name, err)
		}
		ids = append(ids, id)
	}
	topics, err = repo.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	for i, tp := range topics {
		if tp.ID != ids[i] {
			t.Fatalf("topics out of insertion order: %+v", topics)
		}
	}
}

// TestGetEntryTopicScoped requires the entry to belong to the given topic.
func TestGetEntryTopicScoped(t *testing.T) {
	ctx := context.Background()
	_, _, repo := testCore(t)

	topicID, err := repo.CreateTopic(ctx, "Health")
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	otherID, err := repo.CreateTopic(ctx, "Work")
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	entryID, err := repo.CreateEntry(ctx, topicID, "slept 8h")
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	e, err := repo.GetEntry(ctx, topicID, entryID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.Content != "slept 8h" {
		t.Fatalf("unexpected content: %q", e.Content)
	}

	if _, err := repo.GetEntry(ctx, otherID, entryID); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound under wrong topic, got: %v", err)
	}
	if _, err := repo.GetEntry(ctx, topicID, 999); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for unknown entry, got: %v", err)
	}
}
