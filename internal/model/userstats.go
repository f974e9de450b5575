package model

import (
	"bytes"
	"encoding/json"
)

// UserStats is the per-request statistics bundle. It marshals as a JSON
// object whose keys appear in the order fields were first set, matching the
// order the caller requested them.
type UserStats struct {
	order  []UserField
	values map[UserField]any
}

func NewUserStats() *UserStats {
	return &UserStats{values: make(map[UserField]any)}
}

// Set stores a field value. Setting a field twice overwrites the value but
// keeps the field's original position.
func (s *UserStats) Set(f UserField, v any) {
	if _, ok := s.values[f]; !ok {
		s.order = append(s.order, f)
	}
	s.values[f] = v
}

func (s *UserStats) Get(f UserField) (any, bool) {
	v, ok := s.values[f]
	return v, ok
}

// Has reports whether the field was set, regardless of value.
func (s *UserStats) Has(f UserField) bool {
	_, ok := s.values[f]
	return ok
}

func (s *UserStats) Len() int { return len(s.order) }

func (s *UserStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(f))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.values[f])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
