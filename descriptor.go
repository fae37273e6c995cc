package persist

// Kind identifies the declared storage kind of a scalar or identifier
// field. Every value is stored as text; the kind decides how a stored cell
// is parsed and assigned back on load.
type Kind int

const (
	// KindText stores and loads the cell verbatim.
	KindText Kind = iota
	// KindInt formats on persist and parses on load via base-10 integers.
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "integer"
	default:
		return "unknown"
	}
}

// Persistable marks a type as participating in persistence. The returned
// name selects the descriptor registered for the concrete type.
type Persistable interface {
	PersistableType() string
}

// ScalarField declares one text or integer field. Only the accessor pair
// matching Kind is required; declared names must be unexported-style since
// the accessors are the sole access path to the backing field.
type ScalarField struct {
	Name       string
	Kind       Kind
	Identifier bool

	GetText func(Persistable) string
	SetText func(Persistable, string)
	GetInt  func(Persistable) int64
	SetInt  func(Persistable, int64)

	// Present reports whether the field carries a value, used to detect an
	// unset identifier. Optional: when nil, text fields count as unset when
	// empty and integer fields when zero.
	Present func(Persistable) bool
}

// ListField declares an ordered relationship to another persistable type.
// Elem names the element type's registered descriptor; Deferred defers
// hydration of loaded elements until their first read.
type ListField struct {
	Name     string
	Elem     string
	Deferred bool

	Get func(Persistable) []*Ref
	Set func(Persistable, []*Ref)
}

// TypeDescriptor is the declared field table for one persistable type. New
// must construct a blank instance the engine can load into; exactly one
// scalar must be flagged Identifier.
type TypeDescriptor struct {
	Name    string
	New     func() Persistable
	Scalars []ScalarField
	Lists   []ListField
}
