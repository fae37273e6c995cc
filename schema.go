package persist

import (
	"fmt"

	"github.com/goliatone/go-persist/internal/rowcodec"
)

// Schema is the once-built, immutable description of one persistable type:
// its identifier field, its scalar fields, and its list relationships with
// resolved child schemas. Schemas are only created by Registry.Schema.
type Schema struct {
	name    string
	newFn   func() Persistable
	id      ScalarField
	scalars []ScalarField
	lists   []listSchema
}

// listSchema binds a declared list field to its resolved element schema.
// Laziness lives on this pair, not on the element schema, so one field's
// deferred marking cannot leak into other fields sharing the element type.
type listSchema struct {
	field ListField
	elem  *Schema
	lazy  bool
}

// Name returns the registered type name.
func (s *Schema) Name() string {
	return s.name
}

// Identifier returns the declared identifier field name.
func (s *Schema) Identifier() string {
	return s.id.Name
}

// NewInstance constructs a blank value via the declared constructor.
func (s *Schema) NewInstance() Persistable {
	return s.newFn()
}

// Key encodes value's identifier into its store key, failing when the
// identifier is unset.
func (s *Schema) Key(value Persistable) (string, error) {
	if !s.identifierPresent(value) {
		return "", &PersistenceError{
			Op:   "key",
			Type: s.name,
			Err:  fmt.Errorf("%w: field %q is unset", ErrIdentifier, s.id.Name),
		}
	}
	if s.id.Kind == KindInt {
		return rowcodec.EncodeInt(s.id.GetInt(value)), nil
	}
	return s.id.GetText(value), nil
}

func (s *Schema) identifierPresent(value Persistable) bool {
	if s.id.Present != nil {
		return s.id.Present(value)
	}
	if s.id.Kind == KindInt {
		return s.id.GetInt(value) != 0
	}
	return s.id.GetText(value) != ""
}

// assignKey writes a stored identifier token back onto value using the
// kind declared at build time.
func (s *Schema) assignKey(value Persistable, token string) error {
	if s.id.Kind == KindInt {
		parsed, err := rowcodec.DecodeInt(token)
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer identifier for %q", ErrIdentifier, token, s.name)
		}
		s.id.SetInt(value, parsed)
		return nil
	}
	s.id.SetText(value, token)
	return nil
}

// FieldDescriptor is one row of a flattened schema document.
type FieldDescriptor struct {
	Path     string `json:"path"`
	Type     string `json:"type"`
	Deferred bool   `json:"deferred,omitempty"`
}

// Document flattens the schema into field descriptors, one per reachable
// field, with dotted paths through list relationships. Already-visited
// element types render as a single reference row so self-referential
// schemas stay finite.
func (s *Schema) Document() []FieldDescriptor {
	visited := map[string]struct{}{}
	descriptors := deriveFieldDescriptors(s, "", visited)
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	return descriptors
}

func deriveFieldDescriptors(s *Schema, prefix string, visited map[string]struct{}) []FieldDescriptor {
	visited[s.name] = struct{}{}
	fields := []FieldDescriptor{{
		Path: joinPath(prefix, s.id.Name),
		Type: s.id.Kind.String() + " identifier",
	}}
	for _, scalar := range s.scalars {
		fields = append(fields, FieldDescriptor{
			Path: joinPath(prefix, scalar.Name),
			Type: scalar.Kind.String(),
		})
	}
	for _, list := range s.lists {
		path := joinPath(prefix, list.field.Name)
		fields = append(fields, FieldDescriptor{
			Path:     path,
			Type:     "list<" + list.elem.name + ">",
			Deferred: list.lazy,
		})
		if _, seen := visited[list.elem.name]; !seen {
			fields = append(fields, deriveFieldDescriptors(list.elem, path, visited)...)
		}
	}
	return fields
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
