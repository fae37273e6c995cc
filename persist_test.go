package persist

import "testing"

// note is the main test type: integer identifier, two scalar kinds, and
// three list fields exercising eager, deferred, and self-referential
// relationships.
type note struct {
	id      int64
	text    string
	count   int64
	tags    []*Ref
	pinned  []*Ref
	related []*Ref
}

func (n *note) PersistableType() string { return "note" }

// label carries only a text identifier.
type label struct {
	name string
}

func (l *label) PersistableType() string { return "label" }

func noteDescriptor() TypeDescriptor {
	return TypeDescriptor{
		Name: "note",
		New:  func() Persistable { return &note{} },
		Scalars: []ScalarField{
			{
				Name:       "id",
				Kind:       KindInt,
				Identifier: true,
				GetInt:     func(v Persistable) int64 { return v.(*note).id },
				SetInt:     func(v Persistable, value int64) { v.(*note).id = value },
			},
			{
				Name:    "text",
				Kind:    KindText,
				GetText: func(v Persistable) string { return v.(*note).text },
				SetText: func(v Persistable, value string) { v.(*note).text = value },
			},
			{
				Name:   "count",
				Kind:   KindInt,
				GetInt: func(v Persistable) int64 { return v.(*note).count },
				SetInt: func(v Persistable, value int64) { v.(*note).count = value },
			},
		},
		Lists: []ListField{
			{
				Name: "tags",
				Elem: "label",
				Get:  func(v Persistable) []*Ref { return v.(*note).tags },
				Set:  func(v Persistable, refs []*Ref) { v.(*note).tags = refs },
			},
			{
				Name:     "pinned",
				Elem:     "label",
				Deferred: true,
				Get:      func(v Persistable) []*Ref { return v.(*note).pinned },
				Set:      func(v Persistable, refs []*Ref) { v.(*note).pinned = refs },
			},
			{
				Name:     "related",
				Elem:     "note",
				Deferred: true,
				Get:      func(v Persistable) []*Ref { return v.(*note).related },
				Set:      func(v Persistable, refs []*Ref) { v.(*note).related = refs },
			},
		},
	}
}

func labelDescriptor() TypeDescriptor {
	return TypeDescriptor{
		Name: "label",
		New:  func() Persistable { return &label{} },
		Scalars: []ScalarField{
			{
				Name:       "name",
				Kind:       KindText,
				Identifier: true,
				GetText:    func(v Persistable) string { return v.(*label).name },
				SetText:    func(v Persistable, value string) { v.(*label).name = value },
			},
		},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	if err := registry.Register(noteDescriptor()); err != nil {
		t.Fatalf("register note: %v", err)
	}
	if err := registry.Register(labelDescriptor()); err != nil {
		t.Fatalf("register label: %v", err)
	}
	return registry
}

func newTestSession(t *testing.T, store Store) *Session {
	t.Helper()
	session, err := NewSession(store, WithRegistry(newTestRegistry(t)))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return session
}
