package ecs

import (
	"fmt"

	"github.com/milk9111/soundstage/ecs/component"
)

// World owns entities and their components. It is not safe for concurrent use.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*sparseSet
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*sparseSet)}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components. It reports whether e
// was alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	for i := range w.entities.gen {
		if e, ok := w.entities.current(entityID(i + 1)); ok {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) store(id component.ComponentID, create bool) *sparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}

// Add attaches value to e, replacing any existing component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("%w: %s", component.ErrNilComponent, kind)
	}
	w.store(kind.ID(), true).set(e.id(), value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).get(e.id()).(*T)
	return v, ok
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).has(e.id())
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).remove(e.id())
}

// Count returns how many live entities carry kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	if w == nil {
		return 0
	}
	return w.store(kind.ID(), false).len()
}

// First returns the first entity carrying kind, in storage order.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, id := range w.store(kind.ID(), false).ids() {
		if e, ok := w.entities.current(id); ok {
			return e, true
		}
	}
	return 0, false
}

// ForEach visits every entity carrying kind. fn may add, remove or destroy.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.store(kind.ID(), false)
	for _, id := range s.ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		if v, ok := s.get(id).(*T); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb := w.store(ka.ID(), false), w.store(kb.ID(), false)
	if sa == nil || sb == nil {
		return
	}
	for _, id := range smallest(sa, sb).ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id).(*A)
		b, okB := sb.get(id).(*B)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb, sc := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, id := range smallest(sa, sb, sc).ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id).(*A)
		b, okB := sb.get(id).(*B)
		c, okC := sc.get(id).(*C)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	if w == nil || fn == nil {
		return
	}
	sa, sb, sc, sd := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false), w.store(kd.ID(), false)
	if sa == nil || sb == nil || sc == nil || sd == nil {
		return
	}
	for _, id := range smallest(sa, sb, sc, sd).ids() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id).(*A)
		b, okB := sb.get(id).(*B)
		c, okC := sc.get(id).(*C)
		d, okD := sd.get(id).(*D)
		if okA && okB && okC && okD {
			fn(e, a, b, c, d)
		}
	}
}

// smallest picks the set to drive an intersection.
func smallest(sets ...*sparseSet) *sparseSet {
	best := sets[0]
	for _, s := range sets[1:] {
		if s.len() < best.len() {
			best = s
		}
	}
	return best
}
