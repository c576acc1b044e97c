package enum

import (
	"fmt"
	"reflect"
)

type registry[T comparable] struct {
	byName  map[string]T
	ordered []T
}

var registries = map[reflect.Type]any{}

// New registers a value of a string-backed enum type and returns it, so it
// can be used directly in a var declaration. Registration order is kept.
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	r, ok := registries[t].(*registry[T])
	if !ok {
		r = &registry[T]{byName: make(map[string]T)}
		registries[t] = r
	}

	name := reflect.ValueOf(value).String()
	if _, ok := r.byName[name]; !ok {
		r.ordered = append(r.ordered, value)
	}

	r.byName[name] = value
	return value
}

// ToEnum parses s into a registered value of T.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	r, ok := registries[reflect.TypeOf(zero)].(*registry[T])
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := r.byName[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}

// Values returns all registered values of T in registration order.
func Values[T comparable]() []T {
	var zero T
	r, ok := registries[reflect.TypeOf(zero)].(*registry[T])
	if !ok {
		return nil
	}

	return append([]T{}, r.ordered...)
}
