package codec

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/dekarrin/rowjam"
)

// String is the codec for all character-family column types. It is the one
// codec whose encode step cares about the runtime shape of the value: a
// boolean, date, array, or keyed object is flattened to a string for storage
// and tagged with a type hint, while plain strings and numbers pass through
// untagged. The decode step uses the hint to know which of those
// flattenings to undo.
var String = Codec{
	Encode: stringEncode,
	Decode: stringDecode,
}

func stringEncode(v interface{}) Encoded {
	if v == nil {
		return Encoded{Value: v}
	}

	// the bool and date checks must run before the container checks; both of
	// those kinds also look container-shaped to reflection-based dispatch, so
	// the order here is load-bearing.
	switch tv := v.(type) {
	case bool:
		jText, _ := json.Marshal(tv)
		return Encoded{Value: string(jText), Hint: rowjam.HintBool}
	case time.Time:
		return Encoded{Value: tv.Format(time.RFC3339), Hint: rowjam.HintDate}
	case *time.Time:
		if tv == nil {
			return Encoded{Value: nil}
		}
		return Encoded{Value: tv.Format(time.RFC3339), Hint: rowjam.HintDate}
	case []byte:
		// raw bytes are already storable; do not JSON them like other slices
		return Encoded{Value: tv}
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		jText, err := json.Marshal(v)
		if err != nil {
			return Encoded{Value: v}
		}
		return Encoded{Value: string(jText), Hint: rowjam.HintArray}
	case reflect.Map, reflect.Struct:
		jText, err := json.Marshal(v)
		if err != nil {
			return Encoded{Value: v}
		}
		return Encoded{Value: string(jText), Hint: rowjam.HintObject}
	}

	return Encoded{Value: v}
}

func stringDecode(v interface{}, hint rowjam.Hint) (interface{}, error) {
	if v == nil || hint == rowjam.HintNone {
		return v, nil
	}

	s, ok := v.(string)
	if !ok {
		// a hinted value should always be a stored string; if it is not,
		// there is nothing to reconstruct.
		return v, nil
	}

	switch hint {
	case rowjam.HintObject:
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(s), &obj); err != nil {
			return v, rowjam.NewError("parse stored object", err, rowjam.ErrDecodingFailure)
		}
		return obj, nil
	case rowjam.HintArray:
		var arr []interface{}
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return v, rowjam.NewError("parse stored array", err, rowjam.ErrDecodingFailure)
		}
		return arr, nil
	case rowjam.HintBool:
		var b bool
		if err := json.Unmarshal([]byte(s), &b); err != nil {
			return v, rowjam.NewError("parse stored bool", err, rowjam.ErrDecodingFailure)
		}
		return b, nil
	case rowjam.HintDate:
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return v, rowjam.NewError("parse stored date", err, rowjam.ErrDecodingFailure)
		}
		return t, nil
	default:
		// unrecognized hint code; hand the stored value back as-is
		return v, nil
	}
}
