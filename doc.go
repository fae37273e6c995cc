// Package persist maps plain in-memory object graphs onto a hash-oriented
// key/value store. Types opt in by implementing the Persistable marker and
// registering a declared field-descriptor table; the package builds one
// immutable schema per type, then performs recursive save and load of
// nested, list-valued relationships, including deferred hydration of lazy
// collections through an explicit loaded/pending reference variant.
//
// Responsibilities:
//   - Registry validates descriptors and memoizes schema construction so at
//     most one schema instance exists per type name, which also terminates
//     construction for self-referential type graphs.
//   - Session orchestrates register/persist/load walks against one Store;
//     each object becomes one hash write keyed by its identifier, with list
//     relationships flattened to comma-joined identifier cells.
//   - Ref carries one list element as either Loaded(value) or
//     Pending(id, session, schema); the first read of a pending ref hydrates
//     it exactly once, and writes never trigger a store read.
//
// Data flow:
//
//	TypeDescriptor -> Registry -> *Schema -> Session -> Store
//
// The engine offers key lookup only: no query language, no schema
// migration, no multi-object transactions, and no conflict resolution for
// concurrent writers.
package persist
