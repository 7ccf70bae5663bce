package qwant

import (
	"bytes"
	"encoding/json"
)

type optState uint8

const (
	stateAbsent optState = iota
	stateNull
	statePresent
)

// Optional holds a JSON field that may be absent, explicitly null, or set.
//
// Fields of this type are tagged `omitzero` so that re-encoding a decoded
// value reproduces the received shape: absent fields stay absent and null
// stays null.
type Optional[T any] struct {
	value T
	state optState
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, state: statePresent}
}

// Null returns an Optional that was present in the payload as null.
func Null[T any]() Optional[T] {
	return Optional[T]{state: stateNull}
}

// Get returns the value and whether one is set. Null and absent both report false.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == statePresent
}

// OrElse returns the value, or def when there is none.
func (o Optional[T]) OrElse(def T) T {
	if o.state == statePresent {
		return o.value
	}
	return def
}

// Present reports whether the field appeared in the payload, null or not.
func (o Optional[T]) Present() bool { return o.state != stateAbsent }

// IsNull reports whether the field appeared as an explicit null.
func (o Optional[T]) IsNull() bool { return o.state == stateNull }

// IsZero is used by encoding/json's omitzero.
func (o Optional[T]) IsZero() bool { return o.state == stateAbsent }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != statePresent {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		o.value, o.state = zero, stateNull
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.value, o.state = v, statePresent
	return nil
}
