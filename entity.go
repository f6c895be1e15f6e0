package dsync

import (
	"errors"
	"fmt"
)

// Entity is a stable, opaque identifier for an object in a World.
// The low 32 bits hold the storage index and the high 32 bits hold a
// generation counter, so a handle to a despawned entity can never be
// mistaken for its reused slot.
type Entity uint64

// NoEntity is the zero Entity. It never denotes a live object.
const NoEntity Entity = 0

func makeEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

func (e Entity) index() uint32 {
	return uint32(e)
}

func (e Entity) generation() uint32 {
	return uint32(e >> 32)
}

// String returns a compact "index.generation" form for logging.
func (e Entity) String() string {
	return fmt.Sprintf("%d.%d", e.index(), e.generation())
}

// ErrUnmappedEntity is returned when a component holds an entity identifier
// that has no counterpart in the EntityMap it is being rewritten through.
var ErrUnmappedEntity = errors.New("dsync: entity not present in entity map")

// EntityMap is an old-id to new-id mapping built during a clone operation.
// Components that hold Entity references implement EntityMapper and rewrite
// themselves through the map when their owning group is cloned.
type EntityMap struct {
	m map[Entity]Entity
}

// NewEntityMap creates an empty entity map.
func NewEntityMap() *EntityMap {
	return &EntityMap{m: make(map[Entity]Entity)}
}

// Insert records a mapping from old to new.
func (m *EntityMap) Insert(old, new Entity) {
	m.m[old] = new
}

// Get returns the image of old under the map.
func (m *EntityMap) Get(old Entity) (Entity, bool) {
	e, ok := m.m[old]
	return e, ok
}

// Len returns the number of recorded mappings.
func (m *EntityMap) Len() int {
	return len(m.m)
}

// EntityMapper is implemented by components that hold Entity references.
// MapEntities must either rewrite every held identifier through the map or
// fail without leaving a partial rewrite visible. A missing identifier is a
// hard failure: substituting a default id would corrupt the reference graph
// invisibly.
type EntityMapper interface {
	MapEntities(m *EntityMap) error
}

// Cloner is implemented by components that cannot be copied byte-for-byte,
// typically because they own reference types such as maps or slices.
// CloneComponent must return a pointer to a fresh component of the same type.
type Cloner interface {
	CloneComponent() any
}
