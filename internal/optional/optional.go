// Package optional provides a presence-aware container for partial-update
// fields. A plain pointer cannot distinguish a JSON key that was omitted from
// one that was explicitly null, and for nullable columns such as a folder's
// parent reference both meanings are load-bearing.
package optional

import "encoding/json"

// Value wraps a field value together with whether the field was provided at
// all. The zero Value reports "not provided".
type Value[T any] struct {
	value T
	set   bool
}

// Of returns a Value marked as provided.
func Of[T any](value T) Value[T] {
	return Value[T]{value: value, set: true}
}

// Get returns the wrapped value and whether it was provided.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.set
}

// IsSet reports whether the field was provided.
func (v Value[T]) IsSet() bool {
	return v.set
}

// UnmarshalJSON marks the field as provided. It is only invoked when the key
// is present in the document, so an omitted key leaves the zero Value. JSON
// null decodes to the zero value of T, which for pointer types is nil.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	v.value = decoded
	v.set = true
	return nil
}

// MarshalJSON encodes the wrapped value, or null when the field was never
// provided.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
