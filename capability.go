package dsync

import "reflect"

// Subject is implemented by component types that expose a value of type T to
// interested observers. A component may expose itself (T equal to the
// component type) or project a narrower value, such as a rich color-swatch
// component exposing only its top-level color.
//
// Give must be a pure read; it is called once per changed subject per tick.
type Subject[T any] interface {
	Give() T
}

// Observer is implemented by component types that absorb values of type T
// pushed from subjects.
//
// Receive mutates the component in place. Alongside the typed value it gets
// the raw subject component as a read-only reflect.Value, for adapters that
// need more context than T itself; the asset server, for resolving indirect
// references such as loading a resource by name; and the id of the subject
// entity that produced the value, for provenance. Receive must not block.
type Observer[T any] interface {
	Receive(data T, subject reflect.Value, assets *AssetServer, source Entity)
}
