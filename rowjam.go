// Package rowjam is a small library dekarrin uses for mapping document-shaped
// entities onto relational column stores that only speak a fixed set of scalar
// column types.
//
// The problem rowjam solves: application values are richer than what a column
// store can hold natively. Booleans, dates, arrays, and nested objects all
// have to survive being squeezed through a string or number column and come
// back out the other side with the same shape they went in with. rowjam does
// this with a per-column-type codec table (see the codec package) driven by an
// entity marshaller (see the tablemap package), plus a small side-channel of
// "type hints" written into a reserved column of each row so that the read
// path knows which string values need to be re-inflated into something else.
//
// The database connection itself is not rowjam's business; the store
// subpackages provide reference stores that exercise the mapping, but any
// storage layer that can hold a Row can be used.
package rowjam

import "sort"

// HintColumn is the name of the reserved row column that holds the
// JSON-encoded type hint map for the row. It is written by the marshaller when
// at least one field needed a hint, and it is never decoded as an ordinary
// entity field.
const HintColumn = "_typehints"

// Hint is a short type code recorded per field at encode time for values that
// were coerced from a non-scalar shape into a string for storage. The
// vocabulary is closed; persisted rows depend on these exact codes.
type Hint string

const (
	// HintNone marks a field that needs no special reconstruction.
	HintNone Hint = ""

	// HintBool marks a boolean stored as its JSON literal text.
	HintBool Hint = "b"

	// HintObject marks a keyed object stored as JSON text.
	HintObject Hint = "o"

	// HintArray marks an array stored as JSON text.
	HintArray Hint = "a"

	// HintDate marks a date value stored as an ISO-8601 string.
	HintDate Hint = "d"
)

// Row is a storable row: a mapping from column name to a storable scalar
// value (string, number, or nil). It may additionally contain the reserved
// HintColumn entry.
type Row map[string]interface{}

// ColumnSpec is the per-field schema metadata supplied by the caller. Only the
// native column type name is required by rowjam; an empty Type is tolerated
// and selects the passthrough codec.
type ColumnSpec struct {
	// Type is the native column type name, e.g. "NVARCHAR" or "TIMESTAMP".
	// Matching is done against the upper-cased form.
	Type string
}

// TableSpec maps entity field names to their column specifications. It is a
// read-only input to every marshalling call; rowjam never modifies one.
type TableSpec map[string]ColumnSpec

// Entity is the only contract rowjam requires from the caller's document
// model: enumerate your fields, give the value of a field, and construct a new
// instance of yourself from a field mapping. The last one is prototype-style
// on purpose so that the marshaller never has to know entity internals.
type Entity interface {
	// Fields returns the names of all fields the entity currently has.
	Fields() []string

	// Value returns the value of the named field.
	Value(name string) interface{}

	// New constructs a fresh entity of the same kind from the given field
	// mapping. The receiver is used only as a prototype and is not modified.
	New(fields map[string]interface{}) Entity
}

// MapEntity is a ready-made Entity backed by a plain map, for callers that do
// not have their own document type.
type MapEntity map[string]interface{}

// Fields returns the entity's field names in sorted order.
func (m MapEntity) Fields() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Value returns the value of the named field, or nil if the entity does not
// have it.
func (m MapEntity) Value(name string) interface{} {
	return m[name]
}

// New returns a MapEntity over the given field mapping. The map is used
// directly, not copied.
func (m MapEntity) New(fields map[string]interface{}) Entity {
	return MapEntity(fields)
}
