package dsync

// Filter narrows a component query by the presence or absence of another
// component type on the same entity.
type Filter struct {
	id      ComponentID
	exclude bool
}

// With returns a filter that keeps only entities carrying a component of
// type T.
func With[T any]() Filter {
	return Filter{id: TypeID[T]()}
}

// Without returns a filter that skips entities carrying a component of
// type T.
func Without[T any]() Filter {
	return Filter{id: TypeID[T](), exclude: true}
}

func matchFilters(mask *Bitmask, filters []Filter) bool {
	for _, f := range filters {
		if mask.Has(f.id) == f.exclude {
			return false
		}
	}
	return true
}
