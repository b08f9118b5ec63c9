package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	mu      sync.RWMutex
	manager = map[reflect.Type]any{}
)

type enum[T ~string] struct {
	values []T
	index  map[string]T
}

// New registers value as a member of its enum type and returns it, so it can
// be used directly in a var block.
func New[T ~string](value T) T {
	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(value)
	e, ok := manager[t].(*enum[T])
	if !ok {
		e = &enum[T]{index: map[string]T{}}
		manager[t] = e
	}

	if _, ok := e.index[string(value)]; !ok {
		e.values = append(e.values, value)
		e.index[string(value)] = value
	}

	return value
}

// ToEnum converts s to a registered member of T.
func ToEnum[T ~string](s string) (T, error) {
	mu.RLock()
	defer mu.RUnlock()

	var zero T
	e, ok := manager[reflect.TypeOf(zero)].(*enum[T])
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	v, ok := e.index[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return v, nil
}

// Values returns the registered members of T in registration order.
func Values[T ~string]() []T {
	mu.RLock()
	defer mu.RUnlock()

	var zero T
	e, ok := manager[reflect.TypeOf(zero)].(*enum[T])
	if !ok {
		return nil
	}

	return append([]T(nil), e.values...)
}
