package persist

import (
	"context"
	"fmt"
	"sync"
)

// Ref is a tagged handle to one list element: either Loaded, wrapping an
// in-memory value, or Pending, carrying just an identifier plus the session
// and schema needed to hydrate on first read. The pending-to-loaded
// transition fires on at most one Value call across the ref's lifetime;
// identifier access and writes never touch the store.
type Ref struct {
	mu      sync.Mutex
	value   Persistable
	pending bool
	id      string
	session *Session
	schema  *Schema
}

// Of wraps an in-memory value in a Loaded ref.
func Of(value Persistable) *Ref {
	return &Ref{value: value}
}

// Refs wraps each value in a Loaded ref, preserving order.
func Refs[T Persistable](values ...T) []*Ref {
	refs := make([]*Ref, 0, len(values))
	for _, value := range values {
		refs = append(refs, Of(value))
	}
	return refs
}

func newPendingRef(id string, session *Session, schema *Schema) *Ref {
	return &Ref{pending: true, id: id, session: session, schema: schema}
}

// ID returns the element's identifier without touching the store. Refs
// created with Of report an empty identifier until the element is
// persisted.
func (r *Ref) ID() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Pending reports whether the element still awaits hydration.
func (r *Ref) Pending() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Peek returns the wrapped value without hydrating. A pending ref reports
// no value.
func (r *Ref) Peek() (Persistable, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending || r.value == nil {
		return nil, false
	}
	return r.value, true
}

// Set replaces the wrapped value. Writes never trigger a store read: a
// pending ref becomes loaded without hydrating, and the stale identifier is
// cleared until the next persist assigns one.
func (r *Ref) Set(value Persistable) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
	r.pending = false
	r.id = ""
}

// Value returns the wrapped element, hydrating a pending ref from the
// store first. Hydration constructs a blank element, assigns the stored
// identifier, and runs a full load through the bound session; it happens
// exactly once, with concurrent first reads serialised by the ref's mutex.
func (r *Ref) Value(ctx context.Context) (Persistable, error) {
	if r == nil {
		return nil, fmt.Errorf("persist: nil ref")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pending {
		return r.value, nil
	}
	if r.session == nil || r.schema == nil {
		return nil, fmt.Errorf("persist: pending ref %q is not bound to a session", r.id)
	}
	value := r.schema.NewInstance()
	if err := r.schema.assignKey(value, r.id); err != nil {
		return nil, &PersistenceError{Op: "hydrate", Type: r.schema.Name(), Key: r.id, Err: err}
	}
	if err := r.session.loadObject(ctx, value, r.schema); err != nil {
		return nil, err
	}
	r.value = value
	r.pending = false
	r.session.emitHydrated(ctx, r.schema, r.id)
	return r.value, nil
}

// As hydrates r when needed and asserts the element's concrete type.
func As[T Persistable](ctx context.Context, r *Ref) (T, error) {
	var zero T
	value, err := r.Value(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("persist: ref holds %T, not %T", value, zero)
	}
	return typed, nil
}

func (r *Ref) setID(id string) {
	r.mu.Lock()
	r.id = id
	r.mu.Unlock()
}
