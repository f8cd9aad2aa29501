package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FeatureMap is an insertion-ordered map of metric key to value. Values are
// whatever upstream sent: float64, string, bool, nil, []any, or a nested
// *FeatureMap for JSON objects (e.g. "sources").
//
// A nil *FeatureMap behaves as an empty map for reads.
type FeatureMap struct {
	keys   []string
	values map[string]any
}

// NewFeatureMap returns an empty map.
func NewFeatureMap() *FeatureMap {
	return &FeatureMap{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *FeatureMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *FeatureMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value stored under key.
func (m *FeatureMap) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. An existing key keeps its position.
func (m *FeatureMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Clone returns a deep copy; nested maps are cloned as well.
func (m *FeatureMap) Clone() *FeatureMap {
	if m == nil {
		return nil
	}
	out := &FeatureMap{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]any, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		if nested, ok := v.(*FeatureMap); ok {
			v = nested.Clone()
		}
		out.values[k] = v
	}
	return out
}

// MarshalJSON encodes the map as a JSON object in key order.
func (m *FeatureMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode feature %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (m *FeatureMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode features: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode features: expected object, got %v", tok)
	}
	decoded, err := decodeObject(dec)
	if err != nil {
		return fmt.Errorf("decode features: %w", err)
	}
	*m = *decoded
	return nil
}

// decodeObject reads key/value pairs up to and including the closing brace.
func decodeObject(dec *json.Decoder) (*FeatureMap, error) {
	m := NewFeatureMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return decodeObject(dec)
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", d)
	}
}
