package utils

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field: absent leaves the column untouched, JSON null
// clears it, any other value replaces it.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON only runs when the key is present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// HasValue reports a present, non-null value.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Column returns the value to store: nil for a cleared field.
func (o Optional[T]) Column() interface{} {
	if o.Null {
		return nil
	}
	return o.Value
}

// Apply writes the field into an update map when it was sent.
func (o Optional[T]) Apply(updates map[string]interface{}, column string) {
	if o.Set {
		updates[column] = o.Column()
	}
}

// Merge returns the value after the patch: current when absent, nil when cleared.
func (o Optional[T]) Merge(current *T) *T {
	switch {
	case !o.Set:
		return current
	case o.Null:
		return nil
	}
	v := o.Value
	return &v
}
