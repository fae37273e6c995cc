package persist

import (
	"fmt"
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Registry stores type descriptors keyed by type name and memoizes the
// schemas built from them. Memoization guarantees at most one schema
// instance per type name, shared by every reference site, which is what
// terminates construction for self-referential type graphs.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]TypeDescriptor
	schemas     map[string]*Schema
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]TypeDescriptor),
		schemas:     make(map[string]*Schema),
	}
}

// Register stores desc guarding against duplicates. Structural validation
// happens on the first Schema call, not here.
func (r *Registry) Register(desc TypeDescriptor) error {
	if desc.Name == "" {
		return fmt.Errorf("persist: descriptor name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.descriptors == nil {
		r.descriptors = make(map[string]TypeDescriptor)
	}
	if _, exists := r.descriptors[desc.Name]; exists {
		return fmt.Errorf("persist: descriptor %q already registered", desc.Name)
	}
	r.descriptors[desc.Name] = desc
	return nil
}

// MustRegister is Register for package init blocks; it panics on failure.
func (r *Registry) MustRegister(desc TypeDescriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Types returns registered type names sorted alphabetically.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the memoized schema for name, building and validating it
// on first use. Built schemas are immutable and cached for the registry's
// lifetime; a failed build caches nothing.
func (r *Registry) Schema(name string) (*Schema, error) {
	r.mu.RLock()
	cached := r.schemas[name]
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached := r.schemas[name]; cached != nil {
		return cached, nil
	}

	inProgress := make(map[string]*Schema)
	schema, err := r.build(name, inProgress)
	if err != nil {
		return nil, err
	}
	if r.schemas == nil {
		r.schemas = make(map[string]*Schema)
	}
	for built, instance := range inProgress {
		r.schemas[built] = instance
	}
	return schema, nil
}

// build resolves name into a schema. Element types resolve through the
// in-progress map first: a type currently being built is reused instead of
// recursed into, so self-referential graphs terminate and nested references
// stay pointer-identical to the root schema.
func (r *Registry) build(name string, inProgress map[string]*Schema) (*Schema, error) {
	if partial, ok := inProgress[name]; ok {
		return partial, nil
	}
	if cached, ok := r.schemas[name]; ok {
		return cached, nil
	}

	desc, ok := r.descriptors[name]
	if !ok {
		return nil, notPersistable(name, "", "no descriptor registered")
	}
	if desc.New == nil {
		return nil, notPersistable(name, "", "descriptor must supply a parameterless constructor")
	}
	if desc.New() == nil {
		return nil, notPersistable(name, "", "constructor returned nil")
	}

	schema := &Schema{name: name, newFn: desc.New}
	inProgress[name] = schema

	seen := make(map[string]struct{}, len(desc.Scalars)+len(desc.Lists))
	identifiers := 0
	for _, field := range desc.Scalars {
		if err := checkFieldName(name, field.Name, seen); err != nil {
			return nil, err
		}
		switch field.Kind {
		case KindText:
			if field.GetText == nil || field.SetText == nil {
				return nil, notPersistable(name, field.Name, "text fields must declare GetText and SetText")
			}
		case KindInt:
			if field.GetInt == nil || field.SetInt == nil {
				return nil, notPersistable(name, field.Name, "integer fields must declare GetInt and SetInt")
			}
		default:
			return nil, notPersistable(name, field.Name, "unknown field kind")
		}
		if field.Identifier {
			identifiers++
			schema.id = field
			continue
		}
		schema.scalars = append(schema.scalars, field)
	}
	if identifiers != 1 {
		return nil, identifierSchemaErr(name, fmt.Sprintf("exactly one identifier field required, found %d", identifiers))
	}

	for _, field := range desc.Lists {
		if err := checkFieldName(name, field.Name, seen); err != nil {
			return nil, err
		}
		if field.Get == nil || field.Set == nil {
			return nil, notPersistable(name, field.Name, "list fields must declare Get and Set accessors")
		}
		if field.Elem == "" {
			return nil, notPersistable(name, field.Name, "list fields must name an element type")
		}
		elem, err := r.build(field.Elem, inProgress)
		if err != nil {
			return nil, err
		}
		schema.lists = append(schema.lists, listSchema{field: field, elem: elem, lazy: field.Deferred})
	}

	return schema, nil
}

func checkFieldName(typ, name string, seen map[string]struct{}) error {
	if name == "" {
		return notPersistable(typ, name, "field name must not be empty")
	}
	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(first) {
		return notPersistable(typ, name, "declared fields must use unexported-style names")
	}
	if _, dup := seen[name]; dup {
		return notPersistable(typ, name, "field declared twice")
	}
	seen[name] = struct{}{}
	return nil
}
