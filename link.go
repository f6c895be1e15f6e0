package dsync

import "reflect"

// LinkCommand registers an observer entity against one or more subject
// entities for the (T, S, O) triple and performs the first synchronization in
// the same application, so a freshly linked observer reflects the subjects'
// current values instead of waiting for their next incidental change.
// Change tracking watches mutations, not registrations; without this bootstrap
// push an observer linked to an already populated subject would stay stale.
//
// Pairings where the observer lacks O or a subject lacks S are skipped
// silently; the command may legitimately run before those components exist.
type LinkCommand[T any, S any, O any] struct {
	Observer Entity
	Subjects []Entity
}

// Apply runs during the command flush, with exclusive world access.
func (c LinkCommand[T, S, O]) Apply(w *World) {
	for _, subject := range c.Subjects {
		if !w.Alive(subject) {
			continue
		}
		if list := Get[ObserverList[T, S, O]](w, subject); list != nil {
			list.Insert(c.Observer)
		} else {
			Add(w, subject, NewObserverList[T, S, O](c.Observer))
		}
	}

	optr := Mut[O](w, c.Observer)
	if optr == nil {
		return
	}
	observer, ok := any(optr).(Observer[T])
	if !ok {
		return
	}

	assets := Resource[AssetServer](w)
	for _, subject := range c.Subjects {
		sptr := Get[S](w, subject)
		if sptr == nil {
			continue
		}
		subj, ok := any(sptr).(Subject[T])
		if !ok {
			return
		}
		observer.Receive(subj.Give(), reflect.ValueOf(*sptr), assets, subject)
	}
}

// Link queues a LinkCommand for the observer against the given subjects.
// The link takes effect at the next command flush, before that tick's
// propagation passes run.
func Link[T any, S any, O any](w *World, observer Entity, subjects ...Entity) {
	if len(subjects) == 0 {
		return
	}
	w.Queue(LinkCommand[T, S, O]{Observer: observer, Subjects: subjects})
}
