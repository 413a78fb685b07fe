// Package state defines the transient machine-state snapshot produced by
// the per-domain probes. A snapshot is created fresh for every run, read by
// the planners, and discarded; it is never persisted.
package state

import "fmt"

// Snapshot maps named probes to the observed boolean or string values.
// Insertion order is preserved for rendering.
type Snapshot struct {
	keys   []string
	values map[string]any
}

// New returns an empty snapshot.
func New() *Snapshot {
	return &Snapshot{values: make(map[string]any)}
}

// SetBool records a boolean probe result.
func (s *Snapshot) SetBool(key string, v bool) {
	s.set(key, v)
}

// SetString records a string probe result.
func (s *Snapshot) SetString(key, v string) {
	s.set(key, v)
}

func (s *Snapshot) set(key string, v any) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Bool returns the boolean value of a probe, or false if absent or not a bool.
func (s *Snapshot) Bool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

// String returns the string value of a probe, or "" if absent or not a string.
func (s *Snapshot) String(key string) string {
	v, _ := s.values[key].(string)
	return v
}

// Has reports whether the probe was recorded.
func (s *Snapshot) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns probe names in insertion order.
func (s *Snapshot) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Render returns the probe value formatted for display.
func (s *Snapshot) Render(key string) string {
	v, ok := s.values[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// Equal reports whether two snapshots carry identical probes and values.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.values) != len(other.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
