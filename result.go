package jsonresult

// Result holds either an ok value of type T or an err value of type E,
// never both. It models an API response body that is one of two JSON shapes
// with no discriminant field on the wire.
//
// The zero value is the ok variant holding T's zero value.
type Result[T, E any] struct {
	ok    T
	err   E
	isErr bool
}

// Ok wraps a success value.
func Ok[T, E any](v T) Result[T, E] {
	return Result[T, E]{ok: v}
}

// Err wraps an error value.
func Err[T, E any](e E) Result[T, E] {
	return Result[T, E]{err: e, isErr: true}
}

// Ok returns the ok value and whether the result holds the ok variant.
func (r Result[T, E]) Ok() (T, bool) {
	return r.ok, !r.isErr
}

// Err returns the err value and whether the result holds the err variant.
func (r Result[T, E]) Err() (E, bool) {
	return r.err, r.isErr
}

// IsOk reports whether the result holds the ok variant.
func (r Result[T, E]) IsOk() bool {
	return !r.isErr
}

// IsErr reports whether the result holds the err variant.
func (r Result[T, E]) IsErr() bool {
	return r.isErr
}
