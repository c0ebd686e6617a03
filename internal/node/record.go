// Package node holds the codex record model: an insertion-ordered JSON
// object that survives a decode/encode round trip with its key order and
// number literals intact, plus the canonical encoding used for lock hashes.
package node

import (
	"encoding/json"
	"math"
	"strconv"
)

// Capacity is the size of the node address space.
const Capacity = 144

// Record is one JSON object whose keys keep their insertion order.
// Values are nil, bool, string, json.Number, int, float64, []any, []string
// or *Record.
type Record struct {
	keys []string
	vals map[string]any
}

// New returns an empty Record.
func New() *Record {
	return &Record{vals: make(map[string]any)}
}

// Set adds key at the end, or replaces its value in place when present.
func (r *Record) Set(key string, v any) {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.vals[key]
	return v, ok
}

// Has reports whether key is present, even with a null value.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key. Missing keys are ignored.
func (r *Record) Delete(key string) {
	if _, ok := r.vals[key]; !ok {
		return
	}
	delete(r.vals, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns a deep copy. Nested records and slices are copied so the
// clone can be mutated without touching r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{
		keys: make([]string, len(r.keys)),
		vals: make(map[string]any, len(r.vals)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.vals {
		out.vals[k] = cloneValue(v)
	}
	return out
}

// Without returns a shallow copy of r lacking key.
func (r *Record) Without(key string) *Record {
	out := &Record{vals: make(map[string]any, len(r.vals))}
	for _, k := range r.keys {
		if k == key {
			continue
		}
		out.keys = append(out.keys, k)
		out.vals[k] = r.vals[k]
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// String returns the value under key when it is a string.
func (r *Record) String(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the value under key when it is an integral number.
func (r *Record) Int(key string) (int, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	return AsInt(v)
}

// NodeID returns the record's node_id when it is an integer.
func (r *Record) NodeID() (int, bool) {
	return r.Int("node_id")
}

// AsInt converts an integral JSON number to int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// StringList returns v as a list of strings. Every element must be a string.
func StringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// MarshalJSON encodes r compactly in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	return Marshal(r, Compact)
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	rec, ok := v.(*Record)
	if !ok {
		return errNotObject
	}
	*r = *rec
	return nil
}
