package dsync

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// ComponentID is a unique identifier for a component type.
// Valid IDs range from 0 to 255.
type ComponentID uint8

// MaxComponents is the maximum number of component types supported.
const MaxComponents = 255

// componentRegistry assigns sequential ids to component types with lock-free
// reads. Types are registered once but looked up on every component access,
// so the hot path is a sync.Map load.
type componentRegistry struct {
	types sync.Map // map[reflect.Type]ComponentID

	// names and typesArr are written once per id during registration and
	// read-only afterward.
	names    [MaxComponents]string
	typesArr [MaxComponents]reflect.Type

	nextID atomic.Uint32
	arrMu  sync.RWMutex
}

// globalRegistry is the process-wide component registry. Generic
// instantiations produce distinct reflect.Types, so every (T, S, O) triple's
// ObserverList registers under its own id and triples can never share storage.
var globalRegistry = &componentRegistry{}

// registerComponentType registers a component type and returns its id.
func registerComponentType(t reflect.Type) ComponentID {
	if id, ok := globalRegistry.types.Load(t); ok {
		return id.(ComponentID)
	}

	newID := ComponentID(globalRegistry.nextID.Add(1) - 1)
	if newID >= MaxComponents {
		panic(fmt.Sprintf("dsync: component limit exceeded (max %d types)", MaxComponents))
	}

	// LoadOrStore ensures only one goroutine wins a concurrent first
	// registration; the loser's allocated id is wasted, which is rare.
	actual, loaded := globalRegistry.types.LoadOrStore(t, newID)
	if loaded {
		return actual.(ComponentID)
	}

	globalRegistry.arrMu.Lock()
	globalRegistry.names[newID] = t.Name()
	globalRegistry.typesArr[newID] = t
	globalRegistry.arrMu.Unlock()

	return newID
}

// TypeID returns the ComponentID for type T, registering it if needed.
func TypeID[T any]() ComponentID {
	return registerComponentType(reflect.TypeOf((*T)(nil)).Elem())
}

// ComponentName returns the name of the component type with the given id.
func ComponentName(id ComponentID) string {
	globalRegistry.arrMu.RLock()
	defer globalRegistry.arrMu.RUnlock()
	return globalRegistry.names[id]
}

// ComponentType returns the reflect.Type of the component with the given id.
func ComponentType(id ComponentID) reflect.Type {
	globalRegistry.arrMu.RLock()
	defer globalRegistry.arrMu.RUnlock()
	return globalRegistry.typesArr[id]
}

// Add attaches a component to an entity, replacing any existing component of
// the same type. Insertion counts as a change for change-tracking queries.
func Add[T any](w *World, e Entity, component *T) {
	if w == nil || component == nil {
		return
	}
	id := TypeID[T]()

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.aliveLocked(e) {
		return
	}
	w.storage(id).put(e.index(), unsafe.Pointer(component), w.nextChange())
	w.entities[e.index()].mask.Set(id)
}

// Remove detaches a component from an entity. Removing a component that is
// not present is a no-op.
func Remove[T any](w *World, e Entity) {
	if w == nil {
		return
	}
	id := TypeID[T]()

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.aliveLocked(e) {
		return
	}
	w.storage(id).delete(e.index())
	w.entities[e.index()].mask.Clear(id)
}

// Get retrieves a component for reading. Returns nil if the entity is not
// alive or the component is not present. Mutating through the returned
// pointer bypasses change tracking; use Mut for writes that observers
// should see.
func Get[T any](w *World, e Entity) *T {
	if w == nil {
		return nil
	}
	id := TypeID[T]()

	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.aliveLocked(e) {
		return nil
	}
	st := w.storages[id]
	if st == nil {
		return nil
	}
	return (*T)(st.get(e.index()))
}

// Mut retrieves a component for writing and stamps it with a fresh change
// value, so the next change-propagation window picks it up. A no-op write
// still counts as a change.
func Mut[T any](w *World, e Entity) *T {
	if w == nil {
		return nil
	}
	id := TypeID[T]()

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.aliveLocked(e) {
		return nil
	}
	return (*T)(w.storage(id).touch(e.index(), w.nextChange()))
}

// Has reports whether the entity is alive and carries a component of type T.
func Has[T any](w *World, e Entity) bool {
	if w == nil {
		return false
	}
	id := TypeID[T]()

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.aliveLocked(e) && w.entities[e.index()].mask.Has(id)
}

// Each calls fn for every live entity carrying a component of type T that
// also satisfies the given filters. Iteration stops when fn returns false.
func Each[T any](w *World, fn func(Entity, *T) bool, filters ...Filter) {
	eachImpl[T](w, 0, false, fn, filters)
}

// EachChanged is Each restricted to entities whose T component was stamped
// after the given change-counter value. Insertion counts as a change.
func EachChanged[T any](w *World, since uint64, fn func(Entity, *T) bool, filters ...Filter) {
	eachImpl[T](w, since, true, fn, filters)
}

func eachImpl[T any](w *World, since uint64, changedOnly bool, fn func(Entity, *T) bool, filters []Filter) {
	if w == nil {
		return
	}
	id := TypeID[T]()

	// Snapshot matching entities under the read lock, then invoke fn
	// outside it so callbacks may mutate the world.
	type hit struct {
		e   Entity
		ptr *T
	}
	var hits []hit

	w.mu.RLock()
	st := w.storages[id]
	if st == nil {
		w.mu.RUnlock()
		return
	}
	for index, c := range st.cells {
		if changedOnly && c.changed <= since {
			continue
		}
		meta := &w.entities[index]
		if !meta.alive {
			continue
		}
		if !matchFilters(&meta.mask, filters) {
			continue
		}
		hits = append(hits, hit{makeEntity(index, meta.generation), (*T)(c.ptr)})
	}
	w.mu.RUnlock()

	for _, h := range hits {
		if !fn(h.e, h.ptr) {
			return
		}
	}
}
