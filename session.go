package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-persist/internal/rowcodec"
	"github.com/goliatone/go-persist/pkg/activity"
)

// SessionOption customizes session construction.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	registry *Registry
	logger   OpLogger
	hooks    activity.Hooks
}

// WithRegistry makes the session resolve schemas through a shared registry
// instead of a private one.
func WithRegistry(registry *Registry) SessionOption {
	return func(cfg *sessionConfig) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithActivityHooks attaches activity hooks to the session. Hooks are
// cloned and nil entries dropped to preserve immutability.
func WithActivityHooks(hooks activity.Hooks) SessionOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *sessionConfig) {
		cfg.hooks = normalized
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// Session tracks registered root objects and moves them, together with
// every reachable child, between memory and a Store. Each root persists
// and loads independently; a failure on one root never rolls back or
// blocks another.
type Session struct {
	store    Store
	registry *Registry
	logger   OpLogger
	emitter  *activity.Emitter

	mu    sync.Mutex
	roots map[Persistable]*Schema
}

// NewSession builds a session over the given store.
func NewSession(store Store, options ...SessionOption) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("persist: session requires a store")
	}
	cfg := sessionConfig{
		registry: NewRegistry(),
		logger:   noopOpLogger{},
	}
	for _, option := range options {
		if option != nil {
			option(&cfg)
		}
	}
	return &Session{
		store:    store,
		registry: cfg.registry,
		logger:   cfg.logger,
		emitter:  activity.NewEmitter(cfg.hooks, activity.Config{Enabled: cfg.hooks.Enabled()}),
		roots:    map[Persistable]*Schema{},
	}, nil
}

// Registry exposes the schema registry the session resolves types through.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Register adds value as a session root. The value's schema is built (or
// fetched from the memo) up front, so a type whose declaration is invalid
// fails here rather than at the first persist.
func (s *Session) Register(value Persistable) error {
	if value == nil {
		return fmt.Errorf("persist: cannot register nil value")
	}
	schema, err := s.registry.Schema(value.PersistableType())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.roots[value] = schema
	s.mu.Unlock()
	return nil
}

// PersistAll writes every registered root and its reachable children.
// Roots persist independently; errors are joined rather than aborting the
// pass.
func (s *Session) PersistAll(ctx context.Context) error {
	s.mu.Lock()
	type rootPair struct {
		value  Persistable
		schema *Schema
	}
	pairs := make([]rootPair, 0, len(s.roots))
	for value, schema := range s.roots {
		pairs = append(pairs, rootPair{value: value, schema: schema})
	}
	s.mu.Unlock()

	var errs []error
	for _, pair := range pairs {
		if _, err := s.persistObject(ctx, pair.value, pair.schema); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Persist writes a single object graph without registering it as a root.
func (s *Session) Persist(ctx context.Context, value Persistable) error {
	if value == nil {
		return fmt.Errorf("persist: cannot persist nil value")
	}
	schema, err := s.registry.Schema(value.PersistableType())
	if err != nil {
		return err
	}
	_, err = s.persistObject(ctx, value, schema)
	return err
}

// Load fills value from the store using its already-set identifier.
func (s *Session) Load(ctx context.Context, value Persistable) error {
	if value == nil {
		return fmt.Errorf("persist: cannot load into nil value")
	}
	schema, err := s.registry.Schema(value.PersistableType())
	if err != nil {
		return err
	}
	return s.loadObject(ctx, value, schema)
}

func (s *Session) persistObject(ctx context.Context, value Persistable, schema *Schema) (string, error) {
	key, err := schema.Key(value)
	if err != nil {
		return "", err
	}
	if err := rowcodec.ValidateID(key); err != nil {
		return "", &PersistenceError{Op: "persist", Type: schema.name, Key: key, Err: err}
	}

	fields := make(map[string]string, len(schema.scalars)+len(schema.lists))
	for _, scalar := range schema.scalars {
		if scalar.Kind == KindInt {
			fields[scalar.Name] = rowcodec.EncodeInt(scalar.GetInt(value))
			continue
		}
		fields[scalar.Name] = scalar.GetText(value)
	}

	for _, list := range schema.lists {
		refs := list.field.Get(value)
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			if ref == nil {
				continue
			}
			// A still-pending ref already names a stored row; reuse its
			// identifier instead of hydrating just to write it back.
			if ref.Pending() {
				ids = append(ids, ref.ID())
				continue
			}
			child, ok := ref.Peek()
			if !ok {
				continue
			}
			childKey, err := s.persistObject(ctx, child, list.elem)
			if err != nil {
				return "", err
			}
			ref.setID(childKey)
			ids = append(ids, childKey)
		}
		fields[list.field.Name] = rowcodec.JoinIDs(ids)
	}

	started := time.Now()
	err = s.store.WriteHash(ctx, key, fields)
	s.logger.LogOperation(OpEvent{
		Op:       "write",
		Type:     schema.name,
		Key:      key,
		Fields:   len(fields),
		Duration: time.Since(started),
		Err:      err,
	})
	if err != nil {
		return "", &PersistenceError{Op: "persist", Type: schema.name, Key: key, Err: err}
	}
	s.emit(ctx, activity.BuildPersistedEvent(activity.EventInput{
		ObjectType: schema.name,
		ObjectID:   key,
		Metadata:   map[string]any{"fields": len(fields)},
	}))
	return key, nil
}

func (s *Session) loadObject(ctx context.Context, value Persistable, schema *Schema) error {
	key, err := schema.Key(value)
	if err != nil {
		return err
	}

	started := time.Now()
	row, err := s.store.ReadHash(ctx, key)
	s.logger.LogOperation(OpEvent{
		Op:       "read",
		Type:     schema.name,
		Key:      key,
		Fields:   len(row),
		Duration: time.Since(started),
		Err:      err,
	})
	if err != nil {
		return &PersistenceError{Op: "load", Type: schema.name, Key: key, Err: err}
	}

	for _, scalar := range schema.scalars {
		cell, ok := row[scalar.Name]
		if scalar.Kind == KindInt {
			// Missing or empty integer cells keep the constructor default.
			if !ok || cell == "" {
				continue
			}
			parsed, err := rowcodec.DecodeInt(cell)
			if err != nil {
				return &PersistenceError{
					Op:   "load",
					Type: schema.name,
					Key:  key,
					Err:  fmt.Errorf("field %q: %w", scalar.Name, err),
				}
			}
			scalar.SetInt(value, parsed)
			continue
		}
		scalar.SetText(value, cell)
	}

	for _, list := range schema.lists {
		tokens := rowcodec.SplitIDs(row[list.field.Name])
		refs := make([]*Ref, 0, len(tokens))
		for _, token := range tokens {
			if list.lazy {
				refs = append(refs, newPendingRef(token, s, list.elem))
				continue
			}
			element := list.elem.NewInstance()
			if err := list.elem.assignKey(element, token); err != nil {
				return &PersistenceError{Op: "load", Type: schema.name, Key: key, Err: err}
			}
			if err := s.loadObject(ctx, element, list.elem); err != nil {
				return err
			}
			refs = append(refs, &Ref{value: element, id: token})
		}
		list.field.Set(value, refs)
	}

	s.emit(ctx, activity.BuildLoadedEvent(activity.EventInput{
		ObjectType: schema.name,
		ObjectID:   key,
		Metadata:   map[string]any{"fields": len(row)},
	}))
	return nil
}

func (s *Session) emitHydrated(ctx context.Context, schema *Schema, key string) {
	s.emit(ctx, activity.BuildHydratedEvent(activity.EventInput{
		ObjectType: schema.name,
		ObjectID:   key,
	}))
}

// emit fans an event out through the emitter, which applies the default
// channel. Hook failures are observability noise, not persistence failures,
// so they are dropped.
func (s *Session) emit(ctx context.Context, event activity.Event) {
	_ = s.emitter.Emit(ctx, event)
}
