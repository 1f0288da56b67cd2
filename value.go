package jsonresult

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// ShapeError is returned when a JSON payload matches neither the ok shape
// nor the err shape. It keeps both underlying causes so callers can see
// which fields were missing or mismatched for each attempt.
type ShapeError struct {
	OkType   string
	ErrType  string
	OkCause  error
	ErrCause error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("failed to parse as %s: %v: failed to parse as %s: %v", e.OkType, e.OkCause, e.ErrType, e.ErrCause)
}

func (e *ShapeError) Unwrap() []error {
	return []error{e.OkCause, e.ErrCause}
}

// FromJSON decodes an untagged payload into a Result.
//
// The ok shape T is always tried before the err shape E, so a payload that
// happens to satisfy both decodes as the ok variant. A shape matches when
// all of its required fields are present and well-typed; unknown members
// are ignored, see decodeStrict. If neither shape matches, a *ShapeError
// carrying both causes is returned and the result is the zero value.
func FromJSON[T, E any](data []byte) (Result[T, E], error) {
	var ok T
	okErr := decodeStrict(data, &ok)
	if okErr == nil {
		return Ok[T, E](ok), nil
	}

	var e E
	errErr := decodeStrict(data, &e)
	if errErr == nil {
		return Err[T, E](e), nil
	}

	return Result[T, E]{}, &ShapeError{
		OkType:   typeName[T](),
		ErrType:  typeName[E](),
		OkCause:  okErr,
		ErrCause: errErr,
	}
}

// FromValue decodes an already-parsed JSON value (the any tree produced by
// encoding/json) into a Result, with the same ok-first semantics as
// FromJSON.
func FromValue[T, E any](v any) (Result[T, E], error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Result[T, E]{}, fmt.Errorf("failed to marshal JSON value: %w", err)
	}

	return FromJSON[T, E](data)
}

// ToValue serializes whichever variant the result holds back into a generic
// JSON value. No wrapper tag is added: the output is identical to
// serializing the held value directly.
func ToValue[T, E any](r Result[T, E]) (any, error) {
	data, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal serialized variant: %w", err)
	}

	return v, nil
}

// MarshalJSON serializes the held variant with no wrapper tag.
func (r Result[T, E]) MarshalJSON() ([]byte, error) {
	if r.isErr {
		data, err := json.Marshal(r.err)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal err variant: %w", err)
		}
		return data, nil
	}

	data, err := json.Marshal(r.ok)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ok variant: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes an untagged payload via FromJSON, trying the ok
// shape first. On failure the receiver is left untouched.
func (r *Result[T, E]) UnmarshalJSON(data []byte) error {
	res, err := FromJSON[T, E](data)
	if err != nil {
		return err
	}

	*r = res
	return nil
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
