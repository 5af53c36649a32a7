package schema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// OrderedMap is a string-keyed map that remembers insertion order. Member
// order is significant in exported schema documents (definitions and
// properties must serialize in the order the user created them), so a plain
// map[string]V cannot back them.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Has reports whether key is present.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns the value for key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or overwrites key. New keys append to the order; existing keys
// keep their original position.
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key and reports whether it was present.
func (m *OrderedMap[V]) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Rename moves the value stored under old to newKey, keeping old's position
// in the order. When newKey already exists, old is removed and newKey's value
// is overwritten in place.
func (m *OrderedMap[V]) Rename(old, newKey string) bool {
	if old == newKey {
		return m.Has(old)
	}
	v, ok := m.values[old]
	if !ok {
		return false
	}
	if _, exists := m.values[newKey]; exists {
		m.Delete(old)
		m.values[newKey] = v
		return true
	}
	for i, k := range m.keys {
		if k == old {
			m.keys[i] = newKey
			break
		}
	}
	delete(m.values, old)
	m.values[newKey] = v
	return true
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// First returns the first key in insertion order.
func (m *OrderedMap[V]) First() (string, bool) {
	if len(m.keys) == 0 {
		return "", false
	}
	return m.keys[0], true
}

// Clone returns a deep copy, using cloneValue to copy each value.
func (m *OrderedMap[V]) Clone(cloneValue func(V) V) *OrderedMap[V] {
	out := &OrderedMap[V]{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]V, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// MarshalJSON serializes the map as a JSON object in insertion order.
func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object, recording member order. Duplicate keys
// keep the first position and the last value.
func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	m.keys = nil
	m.values = make(map[string]V)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		m.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
