package dsync

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

// cell is a single component attached to an entity: the component data and
// the tick at which it last changed.
type cell struct {
	ptr     unsafe.Pointer
	changed uint64
}

// storage holds all components of one type, keyed by entity index.
type storage struct {
	cells map[uint32]cell
}

func (st *storage) put(index uint32, ptr unsafe.Pointer, tick uint64) {
	st.cells[index] = cell{ptr: ptr, changed: tick}
}

func (st *storage) get(index uint32) unsafe.Pointer {
	return st.cells[index].ptr
}

func (st *storage) touch(index uint32, tick uint64) unsafe.Pointer {
	c, ok := st.cells[index]
	if !ok {
		return nil
	}
	c.changed = tick
	st.cells[index] = c
	return c.ptr
}

func (st *storage) delete(index uint32) {
	delete(st.cells, index)
}

// entityMeta tracks the lifecycle of one entity slot.
type entityMeta struct {
	generation uint32
	alive      bool
	mask       Bitmask
}

// World owns entities, their components, resources, and the deferred command
// queue. Component cells carry change ticks; the scheduler advances the tick
// counter once per frame and change-tracking queries select cells touched
// after a given tick.
//
// The world is not a general-purpose concurrent store. Systems in one
// scheduler batch may run in parallel only because their declared access
// masks are disjoint; entity metadata reads are guarded by a single RWMutex.
type World struct {
	mu       sync.RWMutex
	entities []entityMeta
	freeList []uint32
	storages [MaxComponents]*storage

	resources   map[reflect.Type]unsafe.Pointer
	resourcesMu sync.RWMutex

	commands   []Command
	commandsMu sync.Mutex

	tick    atomic.Uint64
	changes atomic.Uint64
	log     *zap.Logger
}

// NewWorld creates an empty world with a no-op logger.
func NewWorld() *World {
	return &World{
		// Index 0 is reserved so the zero Entity is never valid.
		entities:  make([]entityMeta, 1),
		resources: make(map[reflect.Type]unsafe.Pointer),
		log:       zap.NewNop(),
	}
}

// SetLogger replaces the world's logger. Intended for wiring during Init.
func (w *World) SetLogger(log *zap.Logger) {
	if log != nil {
		w.log = log
	}
}

// Tick returns the current frame tick.
func (w *World) Tick() uint64 {
	return w.tick.Load()
}

// stepTick advances the frame tick. Called by the scheduler at the start of
// every frame.
func (w *World) stepTick() uint64 {
	return w.tick.Add(1)
}

// Changes returns the current value of the change counter. Every mutating
// component access increments it and stamps the touched cell, so a pass that
// records the counter when it runs can later select exactly the cells
// mutated after that point, including mutations made later in the same frame
// by other systems.
func (w *World) Changes() uint64 {
	return w.changes.Load()
}

// nextChange allocates a fresh change stamp.
func (w *World) nextChange() uint64 {
	return w.changes.Add(1)
}

// storage returns the storage for a component id, creating it on first use.
// Caller must hold w.mu.
func (w *World) storage(id ComponentID) *storage {
	st := w.storages[id]
	if st == nil {
		st = &storage{cells: make(map[uint32]cell)}
		w.storages[id] = st
	}
	return st
}

// Spawn allocates a new live entity.
func (w *World) Spawn() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	var index uint32
	if n := len(w.freeList); n > 0 {
		index = w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
	} else {
		w.entities = append(w.entities, entityMeta{})
		index = uint32(len(w.entities) - 1)
	}
	meta := &w.entities[index]
	meta.alive = true
	meta.mask = Bitmask{}
	return makeEntity(index, meta.generation)
}

// Despawn destroys an entity and drops all of its components. Holders of the
// entity id are not notified; stale references are detected through the
// generation counter and pruned lazily by whoever next dereferences them.
func (w *World) Despawn(e Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.aliveLocked(e) {
		return
	}
	meta := &w.entities[e.index()]
	for id := 0; id < MaxComponents; id++ {
		if meta.mask.Has(ComponentID(id)) {
			w.storages[id].delete(e.index())
		}
	}
	meta.alive = false
	meta.mask = Bitmask{}
	meta.generation++
	w.freeList = append(w.freeList, e.index())
}

// Alive reports whether e currently denotes a live entity.
func (w *World) Alive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.aliveLocked(e)
}

func (w *World) aliveLocked(e Entity) bool {
	index := e.index()
	if index == 0 || index >= uint32(len(w.entities)) {
		return false
	}
	meta := &w.entities[index]
	return meta.alive && meta.generation == e.generation()
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for i := range w.entities {
		if w.entities[i].alive {
			n++
		}
	}
	return n
}

// AddResource registers a world resource, replacing any existing resource of
// the same type. Resources are side-channel services looked up by type, such
// as the asset server handed to observers during delivery.
func AddResource[R any](w *World, res *R) {
	if w == nil || res == nil {
		return
	}
	t := reflect.TypeOf(res).Elem()
	w.resourcesMu.Lock()
	w.resources[t] = unsafe.Pointer(res)
	w.resourcesMu.Unlock()
}

// Resource retrieves a world resource by type. Returns nil if absent.
func Resource[R any](w *World) *R {
	if w == nil {
		return nil
	}
	t := reflect.TypeOf((*R)(nil)).Elem()
	w.resourcesMu.RLock()
	ptr := w.resources[t]
	w.resourcesMu.RUnlock()
	return (*R)(ptr)
}

// CloneEntities duplicates a group of entities as a unit. Components are
// deep-copied through Cloner where implemented and byte-copied otherwise.
// After copying, every cloned component implementing EntityMapper is rewritten
// through the old-id to new-id map; a held identifier outside the group aborts
// the whole clone, despawning everything spawned so far, and returns the
// remap failure. On success the returned map covers exactly the input group.
func (w *World) CloneEntities(group []Entity) (*EntityMap, error) {
	mapping := NewEntityMap()
	clones := make([]Entity, 0, len(group))

	abort := func(err error) (*EntityMap, error) {
		for _, c := range clones {
			w.Despawn(c)
		}
		return nil, err
	}

	for _, old := range group {
		if !w.Alive(old) {
			return abort(fmt.Errorf("dsync: cannot clone dead entity %v", old))
		}
		clone := w.Spawn()
		clones = append(clones, clone)
		mapping.Insert(old, clone)
	}

	var mappers []EntityMapper

	for i, old := range group {
		clone := clones[i]

		w.mu.Lock()
		mask := w.entities[old.index()].mask
		for id := 0; id < MaxComponents; id++ {
			cid := ComponentID(id)
			if !mask.Has(cid) {
				continue
			}
			src := w.storages[id].get(old.index())
			copied, err := w.cloneComponent(cid, src)
			if err != nil {
				w.mu.Unlock()
				return abort(err)
			}
			w.storage(cid).put(clone.index(), copied, w.nextChange())
			w.entities[clone.index()].mask.Set(cid)

			if mapper, ok := pointerAs[EntityMapper](cid, copied); ok {
				mappers = append(mappers, mapper)
			}
		}
		w.mu.Unlock()
	}

	for _, mapper := range mappers {
		if err := mapper.MapEntities(mapping); err != nil {
			w.log.Warn("clone aborted by remap failure", zap.Error(err))
			return abort(err)
		}
	}

	return mapping, nil
}

// cloneComponent copies one component cell. Caller must hold w.mu.
func (w *World) cloneComponent(id ComponentID, src unsafe.Pointer) (unsafe.Pointer, error) {
	t := ComponentType(id)

	if cloner, ok := pointerAs[Cloner](id, src); ok {
		copied := cloner.CloneComponent()
		v := reflect.ValueOf(copied)
		if v.Kind() != reflect.Ptr || v.Type().Elem() != t {
			return nil, fmt.Errorf("dsync: %s.CloneComponent returned %T, want *%s", t.Name(), copied, t.Name())
		}
		return v.UnsafePointer(), nil
	}

	// Byte copy. Components holding reference types must implement Cloner
	// or the clone will share their backing storage.
	dst := reflect.New(t)
	dst.Elem().Set(reflect.NewAt(t, src).Elem())
	return dst.UnsafePointer(), nil
}

// pointerAs rebuilds a typed interface value from a raw component pointer.
func pointerAs[I any](id ComponentID, ptr unsafe.Pointer) (I, bool) {
	t := ComponentType(id)
	v := reflect.NewAt(t, ptr).Interface()
	i, ok := v.(I)
	return i, ok
}
