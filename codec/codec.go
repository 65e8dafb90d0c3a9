// Package codec contains Codec pairs for changing application values to and
// from their column-store representations, one per column-type family.
//
// A Codec is looked up by native column type name with [For] or [ForColumn].
// The lookup is total: every type name, including ones rowjam has never heard
// of, maps to some Codec. Character-family columns get [String], the four
// datetime types get their own formatting codecs, and everything else gets
// [Passthrough].
package codec

import (
	"strings"

	"github.com/dekarrin/rowjam"
)

// Encoded is the result of encoding one application value for storage. Value
// is what goes in the column; Hint, if not HintNone, is recorded in the row's
// type hint map so the decode side knows how to reconstruct the original
// shape.
type Encoded struct {
	Value interface{}
	Hint  rowjam.Hint
}

// Codec holds functions to convert a value to and from its column-store
// representation.
//
// Encode never fails; a value that cannot be represented comes back as a nil
// Value. Decode also always produces a usable value: on a degraded decode it
// returns the raw stored value unchanged together with a non-nil error that
// the caller may log. No Codec ever panics or propagates a hard failure.
type Codec struct {
	Encode func(v interface{}) Encoded
	Decode func(v interface{}, hint rowjam.Hint) (interface{}, error)
}

// Passthrough stores and loads values with no interpretation at all. It is
// the codec for every column type that needs no conversion, and the fallback
// for unrecognized type names and absent column specs.
var Passthrough = Codec{
	Encode: func(v interface{}) Encoded {
		return Encoded{Value: v}
	},
	Decode: func(v interface{}, hint rowjam.Hint) (interface{}, error) {
		return v, nil
	},
}

var table = map[string]Codec{
	"VARCHAR":   String,
	"NVARCHAR":  String,
	"ALPHANUM":  String,
	"SHORTTEXT": String,

	"TIMESTAMP":  Timestamp,
	"SECONDDATE": SecondDate,
	"DATE":       DateOnly,
	"TIME":       TimeOnly,
}

// For returns the Codec for the given native column type name. The name is
// matched as-is; use [ForColumn] to get upper-casing and nil handling for
// free. Lookup never fails; any name without a dedicated codec gets
// Passthrough.
func For(typeName string) Codec {
	if c, ok := table[typeName]; ok {
		return c
	}
	return Passthrough
}

// ForColumn returns the Codec for the given column specification. A nil spec
// or one with an empty type name selects Passthrough.
func ForColumn(spec *rowjam.ColumnSpec) Codec {
	if spec == nil || spec.Type == "" {
		return Passthrough
	}
	return For(strings.ToUpper(spec.Type))
}
