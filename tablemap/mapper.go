// Package tablemap marshals whole entities into storable rows and back,
// driving the codec package with a caller-supplied table specification.
//
// The interesting part of the round trip is the type hint map: while encoding
// an entity, every field whose codec had to flatten a richer shape into a
// string gets a short hint code recorded against its name, and the whole map
// is serialized as JSON into the row's reserved hint column. On the way back
// out the hint map is parsed first and consulted per field, so a stored
// "true" comes back as a real boolean and a stored "[1,2,3]" comes back as an
// array rather than a string.
package tablemap

import (
	"encoding/json"
	"strings"

	"github.com/dekarrin/rowjam"
	"github.com/dekarrin/rowjam/codec"
	"github.com/dekarrin/rowjam/coltype"
	"github.com/dekarrin/rowjam/logging"
)

// Mapper converts entities to rows and rows to entities. The zero value is
// ready to use; it logs nowhere and keeps the legacy zero-value omission
// behavior.
//
// Mapper is stateless across calls and safe to use from multiple goroutines
// concurrently.
type Mapper struct {
	// Log receives diagnostics about degraded conversions: unrecognized
	// column types, malformed stored JSON, bad hint columns. If nil, no
	// logging is performed.
	Log logging.Logger

	// KeepZeroValues disables the legacy behavior of omitting a field from
	// the produced row whenever its encoded value is a zero value (empty
	// string, 0, false, or nil). The legacy behavior conflates "absent" with
	// "zero" but matches what existing persisted rows look like, so it stays
	// the default; flipping this changes the shape of rows you write.
	KeepZeroValues bool
}

func (m Mapper) logger() logging.Logger {
	if m.Log == nil {
		return logging.NoOpLogger{}
	}
	return m.Log
}

// ToRow converts an entity to a storable row using the given table
// specification. A nil entity produces a nil row. Fields whose encoded value
// is a zero value are omitted from the row entirely unless KeepZeroValues is
// set (nil encodings are always omitted; there is nothing to store). If any
// field's encoding produced a type hint, the accumulated hint map is
// JSON-serialized under [rowjam.HintColumn].
//
// ToRow never fails; every conversion problem degrades to either omission or
// passthrough.
func (m Mapper) ToRow(ent rowjam.Entity, spec rowjam.TableSpec) rowjam.Row {
	if ent == nil {
		return nil
	}

	row := rowjam.Row{}
	hints := map[string]rowjam.Hint{}

	for _, f := range ent.Fields() {
		cdc := m.codecFor(f, spec)
		enc := cdc.Encode(ent.Value(f))

		if enc.Value == nil {
			continue
		}
		if !m.KeepZeroValues && isZero(enc.Value) {
			continue
		}

		row[f] = enc.Value
		if enc.Hint != rowjam.HintNone {
			hints[f] = enc.Hint
		}
	}

	if len(hints) > 0 {
		jText, err := json.Marshal(hints)
		if err != nil {
			// map[string]Hint cannot actually fail to marshal, but do not
			// let a row go out with silent hint loss if it somehow does
			m.logger().Errorf("serialize type hints: %v", err)
		} else {
			row[rowjam.HintColumn] = string(jText)
		}
	}

	return row
}

// FromRow converts a stored row back to an entity. The proto entity is used
// purely for construction; the result is proto.New called with the decoded
// field mapping. A nil proto or nil row produces nil.
//
// The reserved hint column is parsed first and excluded from field decoding.
// Any field whose decode degrades (malformed stored JSON, bad date text)
// keeps its raw stored value and the problem is logged, never propagated.
func (m Mapper) FromRow(proto rowjam.Entity, row rowjam.Row, spec rowjam.TableSpec) rowjam.Entity {
	if proto == nil || row == nil {
		return nil
	}

	hints := m.parseHints(row)

	fields := map[string]interface{}{}
	for col, v := range row {
		if col == rowjam.HintColumn {
			continue
		}

		cdc := m.codecFor(col, spec)
		decoded, err := cdc.Decode(v, hints[col])
		if err != nil {
			m.logger().Warnf("decode column %s: %v", col, err)
		}
		fields[col] = decoded
	}

	return proto.New(fields)
}

// parseHints extracts the type hint map from a row's reserved hint column.
// An absent, empty, or malformed hint column yields an empty map.
func (m Mapper) parseHints(row rowjam.Row) map[string]rowjam.Hint {
	hints := map[string]rowjam.Hint{}

	hv, ok := row[rowjam.HintColumn]
	if !ok || hv == nil {
		return hints
	}

	s, ok := hv.(string)
	if !ok || s == "" {
		return hints
	}

	if err := json.Unmarshal([]byte(s), &hints); err != nil {
		m.logger().Warnf("parse type hint column: %v", err)
		return map[string]rowjam.Hint{}
	}

	return hints
}

// codecFor resolves the codec for a field from the table specification. A
// missing column spec or empty type name selects the passthrough codec
// silently; a present but unrecognized type name also selects passthrough but
// is worth a diagnostic.
func (m Mapper) codecFor(field string, spec rowjam.TableSpec) codec.Codec {
	cs, ok := spec[field]
	if !ok || cs.Type == "" {
		return codec.Passthrough
	}

	name := strings.ToUpper(cs.Type)
	if coltype.Classify(name) == coltype.None {
		m.logger().Debugf("column %s: unrecognized type %q, storing as-is", field, cs.Type)
	}

	return codec.For(name)
}

// isZero reports whether a storable value is a zero value for row-omission
// purposes. Note that a boolean false over a character column has already
// been encoded to the string "false" by the time this check runs, so it is
// kept; a false headed for any other column family is dropped.
func isZero(v interface{}) bool {
	switch tv := v.(type) {
	case string:
		return tv == ""
	case bool:
		return !tv
	case int:
		return tv == 0
	case int8:
		return tv == 0
	case int16:
		return tv == 0
	case int32:
		return tv == 0
	case int64:
		return tv == 0
	case uint:
		return tv == 0
	case uint8:
		return tv == 0
	case uint16:
		return tv == 0
	case uint32:
		return tv == 0
	case uint64:
		return tv == 0
	case float32:
		return tv == 0
	case float64:
		return tv == 0
	default:
		return false
	}
}
