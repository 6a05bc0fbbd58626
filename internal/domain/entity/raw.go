package entity

// RawRecord is a single loosely-typed record as decoded from an API response
// body. Field values carry whatever types encoding/json produced (float64 for
// numbers, string, bool, nil). Validators in the export use case are the only
// code path that converts a RawRecord into a normalized entity; everything
// downstream of validation works on typed values only.
type RawRecord map[string]any

// Int extracts an integer field from the record. JSON numbers decode as
// float64, so a value is accepted only when it is a whole number. Booleans
// are never accepted as integers.
func (r RawRecord) Int(key string) (int64, bool) {
	switch v := r[key].(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

// String extracts a string field from the record. Missing fields and
// non-string values report false.
func (r RawRecord) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}
