// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidEnvVarName is the sentinel error wrapped by InvalidEnvVarNameError.
var ErrInvalidEnvVarName = errors.New("invalid environment variable name")

// envVarNamePattern matches POSIX-style identifier names.
var envVarNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type (
	// EnvMap is an ordered string-to-string environment mapping. Keys are
	// unique; insertion order is preserved so exports render deterministically.
	// Setting an existing key updates the value in place without reordering.
	//
	// The zero value is not usable; construct with NewEnvMap.
	EnvMap struct {
		keys   []string
		values map[string]string
	}

	// InvalidEnvVarNameError is returned when an environment variable name
	// does not match the identifier pattern [A-Za-z_][A-Za-z0-9_]*.
	InvalidEnvVarNameError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *InvalidEnvVarNameError) Error() string {
	return fmt.Sprintf("invalid environment variable name %q", e.Name)
}

// Unwrap returns ErrInvalidEnvVarName for errors.Is() compatibility.
func (e *InvalidEnvVarNameError) Unwrap() error { return ErrInvalidEnvVarName }

// IsValidEnvVarName reports whether name matches the identifier pattern.
func IsValidEnvVarName(name string) bool {
	return envVarNamePattern.MatchString(name)
}

// NewEnvMap returns an empty EnvMap.
func NewEnvMap() *EnvMap {
	return &EnvMap{values: make(map[string]string)}
}

// Set inserts or updates a key. New keys append to the iteration order;
// existing keys keep their original position.
func (m *EnvMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *EnvMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m *EnvMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *EnvMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (m *EnvMap) Each(fn func(key, value string)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Merge copies every entry of other into m, preserving other's order for
// keys not yet present. A nil other is a no-op.
func (m *EnvMap) Merge(other *EnvMap) {
	if other == nil {
		return
	}
	other.Each(func(k, v string) { m.Set(k, v) })
}

// Clone returns an independent copy of the map.
func (m *EnvMap) Clone() *EnvMap {
	out := NewEnvMap()
	out.Merge(m)
	return out
}

// Slice renders the entries as KEY=VALUE strings in insertion order,
// suitable for exec.Cmd.Env.
func (m *EnvMap) Slice() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, k+"="+m.values[k])
	}
	return out
}
