package domain

// Document is a free-form JSONB payload attached to an entity. Its keys are
// interpreted by convention only, so every accessor tolerates a missing key
// or a value of the wrong shape and reports absence instead of panicking.
type Document map[string]any

func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Float reads a numeric field. JSON decoding yields float64 for every number,
// but values written in-process may be typed, so int variants are accepted too.
func (d Document) Float(key string) (float64, bool) {
	switch v := d[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (d Document) Int(key string) (int, bool) {
	f, ok := d.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Array returns the raw array under key, or false when the key is absent or
// holds a non-array value.
func (d Document) Array(key string) ([]any, bool) {
	a, ok := d[key].([]any)
	return a, ok
}

// StringSlice returns the string elements of an array field. Non-string
// elements are skipped. A missing or non-array field yields nil.
func (d Document) StringSlice(key string) []string {
	switch v := d[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Sub returns a nested document, or nil when the key is absent or not an object.
func (d Document) Sub(key string) Document {
	switch v := d[key].(type) {
	case Document:
		return v
	case map[string]any:
		return Document(v)
	default:
		return nil
	}
}
