package ecs

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/soundstage/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("second destroy should report false")
			}
			if len(Entities(w)) != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() || fresh.generation() == old.generation() {
		t.Fatalf("expected slot reuse with a new generation, old=%v fresh=%v", old, fresh)
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle must not be alive")
	}
	if Has(w, fresh, kind) {
		t.Fatalf("components must not survive slot reuse")
	}
	if err := Add(w, old, kind, intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]("ints")
	strs := component.NewComponent[string]("strs")

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, ints.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
				if Has(w, e2, ints.Kind()) {
					t.Fatalf("e2 should not have an int")
				}
			},
			teardown: func() bool { return Remove(w, e1, ints.Kind()) },
		},
		{
			name: "replace_value",
			setup: func() error {
				if err := Add(w, e1, strs.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e1, strs.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				v, ok := Get(w, e1, strs.Kind())
				if !ok || *v != "b" || Count(w, strs.Kind()) != 1 {
					t.Fatalf("expected replaced value b, got %v", v)
				}
			},
			teardown: func() bool { return Remove(w, e1, strs.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	if err := Add(w, e, component.ComponentKind[int]{}, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected invalid kind error, got %v", err)
	}
	if err := Add(w, e, component.NewComponentKind[int](), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected nil component error, got %v", err)
	}
	named := component.NewComponent[int]("score")
	if err := Add(w, e, named.Kind(), nil); err == nil || !strings.Contains(err.Error(), "score") {
		t.Fatalf("expected error naming the component, got %v", err)
	}
}

func TestForEachAllowsDestroy(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		if err := Add(w, e, kind, intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}

	visited := 0
	ForEach(w, kind, func(e Entity, _ *int) {
		visited++
		DestroyEntity(w, e)
	})
	if visited != 4 || Count(w, kind) != 0 || len(Entities(w)) != 0 {
		t.Fatalf("expected all four visited and destroyed, visited=%d", visited)
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[string]()
	if _, ok := First(w, kind); ok {
		t.Fatalf("expected no entity")
	}
	CreateEntity(w)
	e := CreateEntity(w)
	if err := Add(w, e, kind, stringPtr("x")); err != nil {
		t.Fatal(err)
	}
	got, ok := First(w, kind)
	if !ok || got != e {
		t.Fatalf("expected %v, got %v", e, got)
	}
}

func TestIntersections(t *testing.T) {
	w := NewWorld()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()
	kEmpty := component.NewComponentKind[int]()

	for _, add := range []struct {
		e    Entity
		kind component.ComponentKind[int]
	}{
		{e1, ka}, {e2, ka}, {e2, kb}, {e2, kc}, {e2, kd}, {e3, kb}, {e3, kc}, {e3, kd},
	} {
		if err := Add(w, add.e, add.kind, intPtr(1)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		run  func() []Entity
		want []Entity
	}{
		{"two", func() (res []Entity) {
			ForEach2(w, kb, kc, func(e Entity, _, _ *int) { res = append(res, e) })
			return
		}, []Entity{e2, e3}},
		{"three", func() (res []Entity) {
			ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { res = append(res, e) })
			return
		}, []Entity{e2}},
		{"four", func() (res []Entity) {
			ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { res = append(res, e) })
			return
		}, []Entity{e2}},
		{"missing_store", func() (res []Entity) {
			ForEach3(w, ka, kb, kEmpty, func(e Entity, _, _, _ *int) { res = append(res, e) })
			return
		}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := toSet(tc.run())
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for _, e := range tc.want {
				if _, ok := got[e]; !ok {
					t.Fatalf("expected %v in result", e)
				}
			}
		})
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

type recordSystem struct {
	name string
	log  *[]string
	dts  []time.Duration
}

func (r *recordSystem) Update(_ *World, dt time.Duration) {
	*r.log = append(*r.log, r.name)
	r.dts = append(r.dts, dt)
}

func TestSchedulerOrder(t *testing.T) {
	var log []string
	a := &recordSystem{name: "a", log: &log}
	b := &recordSystem{name: "b", log: &log}
	s := NewScheduler(a, nil)
	s.Add(b)
	s.Add(nil)

	s.Update(NewWorld(), 16*time.Millisecond)
	if len(log) != 2 || log[0] != "a" || log[1] != "b" {
		t.Fatalf("unexpected order %v", log)
	}
	if b.dts[0] != 16*time.Millisecond || len(s.Systems()) != 2 {
		t.Fatalf("unexpected scheduler state")
	}
}
