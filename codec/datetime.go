package codec

import (
	"time"

	"github.com/dekarrin/rowjam"
)

// The storage layouts for the four datetime column types. TIMESTAMP keeps
// millisecond precision, SECONDDATE drops sub-second precision, DATE and TIME
// keep only their respective halves.
const (
	layoutTimestamp  = "2006-01-02 15:04:05.000"
	layoutSecondDate = "2006-01-02 15:04:05"
	layoutDate       = "2006-01-02"
	layoutTime       = "15:04:05"
)

var (
	// Timestamp formats instants to millisecond precision, normalized to UTC.
	Timestamp = datetime(layoutTimestamp, true)

	// SecondDate formats instants to second precision, normalized to UTC.
	SecondDate = datetime(layoutSecondDate, true)

	// DateOnly formats only the calendar date, normalized to UTC.
	DateOnly = datetime(layoutDate, true)

	// TimeOnly formats only the wall-clock time. Unlike the other three
	// datetime codecs it does NOT normalize to UTC; the asymmetry is
	// inherited behavior that persisted data depends on.
	TimeOnly = datetime(layoutTime, false)
)

// datetime builds a Codec that stores date/time values as strings in the
// given layout. Both directions apply the same formatting: the decode side
// does not rehydrate a time.Time, it re-canonicalizes whatever is in the
// column into the layout's string form. Hints are ignored; datetime fields
// never participate in the type hint map. Anything unparseable becomes nil on
// encode and stays untouched as nil on decode, never an error.
func datetime(layout string, utc bool) Codec {
	enc := func(v interface{}) Encoded {
		t, ok := parseTime(v)
		if !ok {
			return Encoded{Value: nil}
		}
		if utc {
			t = t.UTC()
		}
		return Encoded{Value: t.Format(layout)}
	}

	return Codec{
		Encode: enc,
		Decode: func(v interface{}, hint rowjam.Hint) (interface{}, error) {
			return enc(v).Value, nil
		},
	}
}

// timeLayouts are the string forms parseTime will accept, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	layoutTimestamp,
	layoutSecondDate,
	layoutDate,
	layoutTime,
}

// parseTime interprets v as a point in time. It accepts time.Time values
// directly, strings in any of the layouts rowjam reads or writes, and
// integer or float values holding epoch milliseconds (documents that came
// through a JSON layer carry dates that way).
func parseTime(v interface{}) (time.Time, bool) {
	switch tv := v.(type) {
	case time.Time:
		return tv, true
	case *time.Time:
		if tv == nil {
			return time.Time{}, false
		}
		return *tv, true
	case string:
		for _, layout := range timeLayouts {
			t, err := time.Parse(layout, tv)
			if err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case int:
		return time.UnixMilli(int64(tv)), true
	case int32:
		return time.UnixMilli(int64(tv)), true
	case int64:
		return time.UnixMilli(tv), true
	case float32:
		return time.UnixMilli(int64(tv)), true
	case float64:
		return time.UnixMilli(int64(tv)), true
	default:
		return time.Time{}, false
	}
}
