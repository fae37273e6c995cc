package persist

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-persist/internal/rowcodec"
	"github.com/goliatone/go-persist/pkg/activity"
	"github.com/goliatone/go-persist/pkg/memstore"
)

func TestPersistScalarRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	session := newTestSession(t, store)

	original := &note{id: 42, text: "hello", count: 7}
	if err := session.Persist(ctx, original); err != nil {
		t.Fatalf("persist: %v", err)
	}

	row := store.Row("42")
	if row["text"] != "hello" || row["count"] != "7" {
		t.Fatalf("unexpected row: %v", row)
	}
	if _, ok := row["id"]; ok {
		t.Fatalf("identifier must not be stored inside the row: %v", row)
	}

	loaded := &note{id: 42}
	if err := session.Load(ctx, loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.text != "hello" || loaded.count != 7 {
		t.Fatalf("unexpected loaded note: %+v", loaded)
	}
}

func TestPersistOrderedListCell(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	session := newTestSession(t, store)

	subject := &note{id: 1}
	subject.tags = Refs(&label{name: "alpha"}, &label{name: "beta"}, &label{name: "gamma"})

	if err := session.Persist(ctx, subject); err != nil {
		t.Fatalf("persist: %v", err)
	}

	if cell := store.Row("1")["tags"]; cell != "alpha,beta,gamma" {
		t.Fatalf("expected ordered list cell, got %q", cell)
	}

	loaded := &note{id: 1}
	if err := session.Load(ctx, loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.tags) != 3 {
		t.Fatalf("expected 3 tag refs, got %d", len(loaded.tags))
	}
	for i, want := range []string{"alpha", "beta", "gamma"} {
		value, ok := loaded.tags[i].Peek()
		if !ok {
			t.Fatalf("expected eager tag %d loaded", i)
		}
		if value.(*label).name != want {
			t.Fatalf("expected tag %d = %q, got %q", i, want, value.(*label).name)
		}
	}
}

func TestEmptyListRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	session := newTestSession(t, store)

	if err := session.Persist(ctx, &note{id: 1}); err != nil {
		t.Fatalf("persist: %v", err)
	}

	row := store.Row("1")
	if cell, ok := row["tags"]; !ok || cell != "" {
		t.Fatalf("expected empty list stored as empty cell, got %v", row)
	}

	loaded := &note{id: 1, tags: nil}
	if err := session.Load(ctx, loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.tags == nil || len(loaded.tags) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", loaded.tags)
	}
}

func TestPersistNestedChildrenWriteOwnRows(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	session := newTestSession(t, store)

	child := &note{id: 2, text: "child"}
	parent := &note{id: 1, text: "parent", related: Refs(child)}

	if err := session.Persist(ctx, parent); err != nil {
		t.Fatalf("persist: %v", err)
	}

	if store.Row("1")["related"] != "2" {
		t.Fatalf("expected parent to reference child id, got %v", store.Row("1"))
	}
	if store.Row("2")["text"] != "child" {
		t.Fatalf("expected child row written, got %v", store.Row("2"))
	}
	if parent.related[0].ID() != "2" {
		t.Fatalf("expected child ref id backfilled, got %q", parent.related[0].ID())
	}
}

func TestPersistUnsetIdentifier(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, memstore.New())

	err := session.Persist(ctx, &note{text: "no id"})
	if !errors.Is(err, ErrIdentifier) {
		t.Fatalf("expected identifier error, got %v", err)
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Type != "note" {
		t.Fatalf("expected persistence error with type, got %v", err)
	}
}

func TestPersistRejectsSeparatorInIdentifier(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, memstore.New())

	err := session.Persist(ctx, &label{name: "a,b"})
	if !errors.Is(err, rowcodec.ErrSeparatorInID) {
		t.Fatalf("expected separator rejection, got %v", err)
	}
}

func TestLoadMissingIntCellKeepsCurrentValue(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	session := newTestSession(t, store)

	if err := store.WriteHash(ctx, "1", map[string]string{"text": "stored"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	loaded := &note{id: 1, count: 9}
	if err := session.Load(ctx, loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.text != "stored" {
		t.Fatalf("expected text loaded, got %q", loaded.text)
	}
	if loaded.count != 9 {
		t.Fatalf("expected missing integer cell to keep value, got %d", loaded.count)
	}
}

func TestLoadMalformedIntCell(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	session := newTestSession(t, store)

	if err := store.WriteHash(ctx, "1", map[string]string{"count": "not-a-number"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := session.Load(ctx, &note{id: 1})
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Op != "load" {
		t.Fatalf("expected load persistence error, got %v", err)
	}
}

type flakyStore struct {
	inner    *memstore.Store
	failKeys map[string]bool
}

func (s *flakyStore) WriteHash(ctx context.Context, key string, fields map[string]string) error {
	if s.failKeys[key] {
		return fmt.Errorf("store unavailable for %q", key)
	}
	return s.inner.WriteHash(ctx, key, fields)
}

func (s *flakyStore) ReadHash(ctx context.Context, key string) (map[string]string, error) {
	if s.failKeys[key] {
		return nil, fmt.Errorf("store unavailable for %q", key)
	}
	return s.inner.ReadHash(ctx, key)
}

func TestPersistAllRootsAreIndependent(t *testing.T) {
	ctx := context.Background()
	inner := memstore.New()
	store := &flakyStore{inner: inner, failKeys: map[string]bool{"1": true}}
	session := newTestSession(t, store)

	failing := &note{id: 1, text: "doomed"}
	healthy := &note{id: 2, text: "fine"}
	if err := session.Register(failing); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := session.Register(healthy); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := session.PersistAll(ctx)
	if err == nil {
		t.Fatalf("expected joined error from failing root")
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Key != "1" {
		t.Fatalf("expected persistence error for key 1, got %v", err)
	}
	if inner.Row("2")["text"] != "fine" {
		t.Fatalf("expected healthy root persisted despite sibling failure")
	}
}

func TestRegisterFailsOnInvalidDeclaration(t *testing.T) {
	registry := NewRegistry()
	desc := labelDescriptor()
	desc.Scalars[0].Identifier = false
	if err := registry.Register(desc); err != nil {
		t.Fatalf("register descriptor: %v", err)
	}

	session, err := NewSession(memstore.New(), WithRegistry(registry))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if err := session.Register(&label{name: "x"}); !errors.Is(err, ErrIdentifier) {
		t.Fatalf("expected registration to surface schema error, got %v", err)
	}
}

func TestOpLoggerRecordsStoreTraffic(t *testing.T) {
	ctx := context.Background()
	var events []OpEvent
	session, err := NewSession(memstore.New(),
		WithRegistry(newTestRegistry(t)),
		WithOpLogger(OpLoggerFunc(func(event OpEvent) {
			events = append(events, event)
		})))
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	if err := session.Persist(ctx, &note{id: 1, text: "x"}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := session.Load(ctx, &note{id: 1}); err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 operations logged, got %d", len(events))
	}
	if events[0].Op != "write" || events[0].Type != "note" || events[0].Key != "1" {
		t.Fatalf("unexpected write event: %+v", events[0])
	}
	if events[1].Op != "read" || events[1].Err != nil {
		t.Fatalf("unexpected read event: %+v", events[1])
	}
}

func TestActivityHooksObservePersistence(t *testing.T) {
	ctx := context.Background()
	capture := &activity.CaptureHook{}
	session, err := NewSession(memstore.New(),
		WithRegistry(newTestRegistry(t)),
		WithActivityHooks(activity.Hooks{capture}))
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	if err := session.Persist(ctx, &note{id: 1}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := session.Load(ctx, &note{id: 1}); err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(capture.Events) != 2 {
		t.Fatalf("expected 2 activity events, got %d", len(capture.Events))
	}
	if capture.Events[0].Verb != "object.persisted" || capture.Events[0].ObjectID != "1" {
		t.Fatalf("unexpected persisted event: %+v", capture.Events[0])
	}
	if capture.Events[0].Channel != "persistence" {
		t.Fatalf("expected default channel applied, got %q", capture.Events[0].Channel)
	}
	last, ok := capture.Last()
	if !ok || last.Verb != "object.loaded" || last.ObjectType != "note" {
		t.Fatalf("unexpected loaded event: %+v", last)
	}
}

func TestNewSessionRequiresStore(t *testing.T) {
	if _, err := NewSession(nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}
