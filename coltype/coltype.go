// Package coltype classifies native column type names into the five families
// that rowjam knows how to map: character, datetime, numeric, binary, and
// large-object. The type names are HANA-flavored but the classification is
// just a fixed table; an unrecognized name belongs to no family at all.
package coltype

import (
	"fmt"
	"strings"
)

// Family is one of the five column-type families, or None for a name that is
// not in the classification table.
type Family int

const (
	None Family = iota
	Character
	DateTime
	Numeric
	Binary
	LargeObject
)

func (f Family) String() string {
	switch f {
	case None:
		return "none"
	case Character:
		return "character"
	case DateTime:
		return "datetime"
	case Numeric:
		return "numeric"
	case Binary:
		return "binary"
	case LargeObject:
		return "large-object"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(s) {
	case None.String(), "":
		return None, nil
	case Character.String():
		return Character, nil
	case DateTime.String():
		return DateTime, nil
	case Numeric.String():
		return Numeric, nil
	case Binary.String():
		return Binary, nil
	case LargeObject.String():
		return LargeObject, nil
	default:
		return None, fmt.Errorf("unknown Family %q", s)
	}
}

// families is the fixed classification table. Membership is static; every
// recognized type name belongs to exactly one family.
var families = map[string]Family{
	"VARCHAR":   Character,
	"NVARCHAR":  Character,
	"ALPHANUM":  Character,
	"SHORTTEXT": Character,

	"DATE":       DateTime,
	"TIME":       DateTime,
	"SECONDDATE": DateTime,
	"TIMESTAMP":  DateTime,

	"TINYINT":      Numeric,
	"SMALLINT":     Numeric,
	"INTEGER":      Numeric,
	"BIGINT":       Numeric,
	"SMALLDECIMAL": Numeric,
	"DECIMAL":      Numeric,
	"REAL":         Numeric,
	"DOUBLE":       Numeric,

	"VARBINARY": Binary,
	"BINARY":    Binary,

	"BLOB":  LargeObject,
	"CLOB":  LargeObject,
	"NCLOB": LargeObject,
	"TEXT":  LargeObject,
}

// Classify returns the family that the given type name belongs to. Matching
// is exact and case-sensitive; callers are expected to have already
// upper-cased the name. An unrecognized name returns None.
func Classify(typeName string) Family {
	return families[typeName]
}

// Filterable reports whether a column of the given type name may appear in
// filter and comparison expressions. It is false for an empty name; otherwise
// the name is upper-cased and every recognized type is allowed. The predicate
// exists purely to reject unrecognized or absent type names in filter
// contexts.
func Filterable(typeName string) bool {
	if typeName == "" {
		return false
	}
	return Classify(strings.ToUpper(typeName)) != None
}
