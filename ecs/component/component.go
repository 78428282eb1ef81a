package component

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var (
	nextComponentID atomic.Uint32
	names           sync.Map // ComponentID -> string
)

// ComponentKind identifies the storage for components of type T. Two kinds
// of the same T are distinct stores.
type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// String returns the name given to NewComponent, or the Go type for
// anonymous kinds.
func (k ComponentKind[T]) String() string {
	return nameOf(k.id, func() string {
		var zero T
		return fmt.Sprintf("%T#%d", zero, k.id)
	})
}

// nameOf looks up a registered component name, falling back to fallback().
func nameOf(id ComponentID, fallback func() string) string {
	if v, ok := names.Load(id); ok {
		return v.(string)
	}
	if fallback == nil {
		return fmt.Sprintf("#%d", id)
	}
	return fallback()
}

// ComponentHandle is the package-level declaration of a named component.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
	name string
}

func NewComponent[T any](name string) ComponentHandle[T] {
	kind := NewComponentKind[T]()
	if name != "" {
		names.Store(kind.id, name)
	}
	return ComponentHandle[T]{kind: kind, name: name}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

func (h ComponentHandle[T]) Name() string {
	return h.name
}
