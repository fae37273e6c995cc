package memstore

import (
	"context"
	"testing"
)

func TestWriteHashMergesFields(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.WriteHash(ctx, "note:1", map[string]string{"text": "hi", "tags": ""}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.WriteHash(ctx, "note:1", map[string]string{"text": "updated"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	row, err := store.ReadHash(ctx, "note:1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if row["text"] != "updated" {
		t.Fatalf("expected merged field, got %q", row["text"])
	}
	if cell, ok := row["tags"]; !ok || cell != "" {
		t.Fatalf("expected earlier field preserved, got %v", row)
	}
}

func TestReadHashAbsentKeyYieldsEmptyMap(t *testing.T) {
	store := New()

	row, err := store.ReadHash(context.Background(), "missing")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if row == nil || len(row) != 0 {
		t.Fatalf("expected empty map, got %v", row)
	}
}

func TestReadHashReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.WriteHash(ctx, "k", map[string]string{"a": "1"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	row, _ := store.ReadHash(ctx, "k")
	row["a"] = "mutated"

	again, _ := store.ReadHash(ctx, "k")
	if again["a"] != "1" {
		t.Fatalf("expected stored row untouched, got %q", again["a"])
	}
}

func TestCountersTrackTraffic(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.WriteHash(ctx, "k", map[string]string{"a": "1"})
	_, _ = store.ReadHash(ctx, "k")
	_, _ = store.ReadHash(ctx, "missing")

	if store.Writes() != 1 {
		t.Fatalf("expected 1 write, got %d", store.Writes())
	}
	if store.Reads() != 2 {
		t.Fatalf("expected 2 reads, got %d", store.Reads())
	}
}
