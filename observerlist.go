package dsync

import "fmt"

// ObserverList records which observer entities are interested in the subject
// entity it is attached to, for one (T, S, O) sync triple. Distinct triples
// instantiate distinct Go types and therefore occupy distinct component
// storages.
//
// The list makes no liveness claim about its contents: observers are checked
// against the world at dispatch time and dead entries are pruned lazily then,
// never eagerly. It carries no locking; it is mutated only by the command
// flush and the propagation pass, which run in disjoint phases of a tick.
type ObserverList[T any, S any, O any] struct {
	observers map[Entity]struct{}
}

// NewObserverList constructs a list seeded with an initial interest set.
func NewObserverList[T any, S any, O any](initial ...Entity) *ObserverList[T, S, O] {
	l := &ObserverList[T, S, O]{observers: make(map[Entity]struct{}, len(initial))}
	for _, e := range initial {
		l.observers[e] = struct{}{}
	}
	return l
}

// Insert adds an observer. Re-adding an already recorded observer is a no-op,
// so double registration can never cause duplicate deliveries.
func (l *ObserverList[T, S, O]) Insert(observer Entity) {
	if l.observers == nil {
		l.observers = make(map[Entity]struct{})
	}
	l.observers[observer] = struct{}{}
}

// Remove drops an observer from the list.
func (l *ObserverList[T, S, O]) Remove(observer Entity) {
	delete(l.observers, observer)
}

// Has reports whether the observer is recorded.
func (l *ObserverList[T, S, O]) Has(observer Entity) bool {
	_, ok := l.observers[observer]
	return ok
}

// Len returns the number of recorded observers.
func (l *ObserverList[T, S, O]) Len() int {
	return len(l.observers)
}

// Observers returns a snapshot of the recorded observers, in no particular
// order. Callers are responsible for liveness filtering.
func (l *ObserverList[T, S, O]) Observers() []Entity {
	out := make([]Entity, 0, len(l.observers))
	for e := range l.observers {
		out = append(out, e)
	}
	return out
}

// MapEntities rewrites every recorded observer through the map. If any
// observer has no image under the map the rewrite fails atomically: the list
// is left exactly as it was. A list must never reference an entity outside
// the group being remapped alongside it.
func (l *ObserverList[T, S, O]) MapEntities(m *EntityMap) error {
	remapped := make(map[Entity]struct{}, len(l.observers))
	for old := range l.observers {
		mapped, ok := m.Get(old)
		if !ok {
			return fmt.Errorf("%w: observer %v", ErrUnmappedEntity, old)
		}
		remapped[mapped] = struct{}{}
	}
	l.observers = remapped
	return nil
}

// CloneComponent deep-copies the list so a clone never shares the original's
// interest set.
func (l *ObserverList[T, S, O]) CloneComponent() any {
	clone := &ObserverList[T, S, O]{observers: make(map[Entity]struct{}, len(l.observers))}
	for e := range l.observers {
		clone.observers[e] = struct{}{}
	}
	return clone
}
