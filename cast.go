package basebox

import (
	"fmt"
	"reflect"
)

// BadCastError reports a failed checked cast. It carries the name of
// the type actually stored (empty if the storage held nothing) and the
// name of the requested type.
type BadCastError struct {
	Actual    string
	Requested string

	// Message, if set, overrides the composed diagnostic text.
	Message string
}

func (e *BadCastError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Actual == "" {
		return fmt.Sprintf("basebox: cannot cast empty storage to %s", e.Requested)
	}

	return fmt.Sprintf("basebox: cannot cast stored %s to %s", e.Actual, e.Requested)
}

// Get returns a typed pointer to the held value if the storage
// currently holds a value of exactly the concrete type T. It returns
// (nil, false) for a nil storage, an empty storage, or a storage
// holding any other type. Matching is by type identity, never by
// layout: two distinct types of identical shape do not match.
func Get[T any, B any](s *Storage[B]) (*T, bool) {
	if s == nil || s.ty == nil || s.ty.Type != reflect.TypeFor[T]() {
		return nil, false
	}

	return (*T)(s.slot.Ptr()), true
}

// Cast is the error-reporting form of Get. On mismatch it returns a
// *BadCastError naming both the stored and the requested type.
func Cast[T any, B any](s *Storage[B]) (*T, error) {
	if value, ok := Get[T](s); ok {
		return value, nil
	}

	var actual string
	if s != nil && s.ty != nil {
		actual = s.ty.Name
	}

	return nil, &BadCastError{
		Actual:    actual,
		Requested: reflect.TypeFor[T]().String(),
	}
}

// MustGet returns a typed pointer to the held value and panics with a
// *BadCastError if the storage does not hold a value of exactly T.
func MustGet[T any, B any](s *Storage[B]) *T {
	value, err := Cast[T](s)
	if err != nil {
		panic(err)
	}

	return value
}
