package validate

import (
	"encoding/json"
	"errors"
)

var (
	// ErrInvalidJSON is returned when a JSON-array query value fails to parse.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrNotArray is returned when a JSON query value parses but is not an array.
	ErrNotArray = errors.New("not an array")
)

// StringList parses a query parameter that arrives either as a single JSON
// array value or as repeated scalar values. A nil result means the parameter
// was omitted entirely; an empty non-nil result means an explicit empty list.
// Non-string array elements are dropped (they can never match an allow-list).
func StringList(jsonVal string, scalars []string) ([]string, error) {
	if jsonVal != "" {
		var parsed any
		if err := json.Unmarshal([]byte(jsonVal), &parsed); err != nil {
			return nil, ErrInvalidJSON
		}
		arr, ok := parsed.([]any)
		if !ok {
			return nil, ErrNotArray
		}
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out, nil
	}
	if len(scalars) > 0 {
		return scalars, nil
	}
	return nil, nil
}
