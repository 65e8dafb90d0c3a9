package tablemap

import (
	"reflect"
	"strings"
)

// DirectiveSuffix marks filter keys that carry query directives rather than
// literal comparison values. A key like "name$" modifies how "name" is
// matched and must never reach the store as a column.
const DirectiveSuffix = "$"

// StripDirectives returns a copy of the given filter specification containing
// only keys that name storable columns: keys carrying the directive suffix
// are dropped, as is an "id" key whose value is a callable (a directive
// standing in for an id rather than a concrete one). A nil query stays nil.
func StripDirectives(query map[string]interface{}) map[string]interface{} {
	if query == nil {
		return nil
	}

	out := make(map[string]interface{}, len(query))
	for k, v := range query {
		if strings.HasSuffix(k, DirectiveSuffix) {
			continue
		}
		if k == "id" && v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
			continue
		}
		out[k] = v
	}
	return out
}
