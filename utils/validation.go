// utils/validation.go
package utils

import (
	"encoding/json"
	"math"
)

// RequiredString returns the value stored under key when it is a non-empty string.
func RequiredString(fields map[string]any, key string) (string, bool) {
	s, ok := fields[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// PositiveInt converts a decoded JSON value into a positive integer.
// Decoded JSON numbers arrive as float64 (or json.Number when UseNumber is set).
func PositiveInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n > 0
	case int64:
		return int(n), n > 0
	case float64:
		if n <= 0 || n != math.Trunc(n) || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i <= 0 {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

// IsBlank reports whether v is one of the values callers use to mean "not set":
// null, false, zero or the empty string.
func IsBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case float64:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	case json.Number:
		return x.String() == "0"
	}
	return false
}
