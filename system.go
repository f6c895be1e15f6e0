package dsync

// System is a unit of per-tick work executed by the scheduler.
type System interface {
	Run(w *World)
}

// Access declares the component storages a system reads and writes. The
// scheduler uses declared access to batch non-conflicting systems for
// parallel execution within a stage; a system touching a storage it did not
// declare is a data race waiting to happen.
type Access struct {
	reads  Bitmask
	writes Bitmask
}

// NewAccess returns an empty access declaration.
func NewAccess() Access {
	return Access{}
}

// Read adds component ids to the read set.
func (a Access) Read(ids ...ComponentID) Access {
	for _, id := range ids {
		a.reads.Set(id)
	}
	return a
}

// Write adds component ids to the write set.
func (a Access) Write(ids ...ComponentID) Access {
	for _, id := range ids {
		a.writes.Set(id)
	}
	return a
}

// Conflicts reports whether two access declarations cannot run in parallel:
// a write on either side overlapping the other's reads or writes.
func (a *Access) Conflicts(other *Access) bool {
	if a.writes.ContainsAny(other.reads) || a.writes.ContainsAny(other.writes) {
		return true
	}
	return other.writes.ContainsAny(a.reads)
}
