package model

import (
	"bytes"
	"encoding/json"
)

type fieldState uint8

const (
	unset fieldState = iota
	null
	present
)

// Field is an optional value of a partial update. It distinguishes three cases: the value was
// not provided at all (unset), it was explicitly set to JSON null, or it was given a value.
//
// The zero Field is unset, so a JSON key that is missing from the request body leaves the
// field unset.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: present, value: v}
}

// Null returns a Field that was explicitly cleared.
func Null[T any]() Field[T] {
	return Field[T]{state: null}
}

// IsSet reports whether the field was provided, either with a value or as null.
func (f Field[T]) IsSet() bool {
	return f.state != unset
}

// IsNull reports whether the field was explicitly cleared.
func (f Field[T]) IsNull() bool {
	return f.state == null
}

// IsZero reports whether the field was not provided. It lets encoding/json omit unset fields
// tagged with omitzero.
func (f Field[T]) IsZero() bool {
	return f.state == unset
}

// Get returns the value and whether there is one.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == present
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != present {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
