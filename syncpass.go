package dsync

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// syncSystem is the change-propagation pass for one (T, S, O) triple. Each
// tick it selects subjects whose S component changed since the pass last ran,
// computes the exposed value once per subject, and delivers it to every live
// registered observer. Observer entities that no longer exist are expected
// steady-state garbage from entity destruction: they are pruned from the
// list silently, in a batch after iteration so removal never interleaves
// with it.
type syncSystem[T any, S any, O any] struct {
	since uint64
	log   *zap.Logger
}

func (s *syncSystem[T, S, O]) Run(w *World) {
	// Read the counter before iterating: deliveries below stamp observer
	// components past this point, so writes made while the pass runs are
	// picked up by the next window instead of being lost.
	cur := w.Changes()
	assets := Resource[AssetServer](w)

	EachChanged[S](w, s.since, func(subject Entity, sptr *S) bool {
		list := Get[ObserverList[T, S, O]](w, subject)
		if list == nil || list.Len() == 0 {
			return true
		}

		subj := any(sptr).(Subject[T])
		value := subj.Give()
		raw := reflect.ValueOf(*sptr)

		var dead []Entity
		for _, observer := range list.Observers() {
			optr := Mut[O](w, observer)
			if optr == nil {
				dead = append(dead, observer)
				continue
			}
			any(optr).(Observer[T]).Receive(value, raw, assets, subject)
		}

		for _, observer := range dead {
			list.Remove(observer)
		}
		if len(dead) > 0 {
			s.log.Debug("pruned dead observers",
				zap.Stringer("subject", subject),
				zap.Int("pruned", len(dead)))
		}
		return true
	}, With[ObserverList[T, S, O]]())

	s.since = cur
}

// Register wires the (T, S, O) triple into the manager: it validates the
// capability implementations, records the triple's ObserverList component
// type in the registry, and schedules the change-propagation pass in the
// After stage, ordered behind all subject-mutating logic.
//
// S must implement Subject[T] and O must implement Observer[T], on the value
// or pointer receiver. Register panics on a missing implementation, in the
// same way the manager rejects a misconfigured system at build time: the
// mistake is structural, not a runtime condition.
func Register[T any, S any, O any](m *Manager) {
	var (
		sptr *S
		optr *O
	)
	if _, ok := any(sptr).(Subject[T]); !ok {
		panic(fmt.Sprintf("dsync: %s does not implement Subject[%s]",
			reflect.TypeOf(sptr).Elem(), reflect.TypeOf((*T)(nil)).Elem()))
	}
	if _, ok := any(optr).(Observer[T]); !ok {
		panic(fmt.Sprintf("dsync: %s does not implement Observer[%s]",
			reflect.TypeOf(optr).Elem(), reflect.TypeOf((*T)(nil)).Elem()))
	}

	listID := TypeID[ObserverList[T, S, O]]()

	access := NewAccess().
		Read(TypeID[S]()).
		Write(TypeID[O](), listID)

	name := fmt.Sprintf("sync(%s->%s)",
		reflect.TypeOf(sptr).Elem().Name(),
		reflect.TypeOf(optr).Elem().Name())

	m.scheduler.AddSystem(&syncSystem[T, S, O]{log: m.log}, name, After, access)

	m.log.Debug("registered sync triple",
		zap.String("system", name),
		zap.String("list", ComponentName(listID)))
}
