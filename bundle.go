package dsync

// Bundle groups related sync registrations, systems, and resources so a
// feature can be dropped into a builder as one unit.
type Bundle struct {
	name string

	resources     []resourceRegistration
	systems       []systemRegistration
	registrations []func(*Manager)
}

type resourceRegistration struct {
	install func(*World)
}

type systemRegistration struct {
	sys    System
	name   string
	stage  Stage
	access Access
}

// NewBundle creates a new bundle with the given name.
func NewBundle(name string) *Bundle {
	return &Bundle{name: name}
}

// Name returns the bundle name.
func (b *Bundle) Name() string {
	return b.name
}

// BundleResource registers a bundle-level resource installed into the world
// at Init. A free function because Go methods cannot take type parameters.
func BundleResource[R any](b *Bundle, res *R) *Bundle {
	b.resources = append(b.resources, resourceRegistration{
		install: func(w *World) { AddResource(w, res) },
	})
	return b
}

// System registers a system for this bundle.
func (b *Bundle) System(sys System, name string, stage Stage, access Access) *Bundle {
	b.systems = append(b.systems, systemRegistration{
		sys:    sys,
		name:   name,
		stage:  stage,
		access: access,
	})
	return b
}

// Register defers a registration callback until the manager exists. Sync
// triples are wired this way:
//
//	bundle.Register(func(m *dsync.Manager) {
//	    dsync.Register[string, Card, Label](m)
//	})
func (b *Bundle) Register(fn func(*Manager)) *Bundle {
	if fn != nil {
		b.registrations = append(b.registrations, fn)
	}
	return b
}

// apply wires the bundle's contents into a built manager.
func (b *Bundle) apply(m *Manager) {
	for _, reg := range b.resources {
		reg.install(m.world)
	}
	for _, reg := range b.systems {
		m.scheduler.AddSystem(reg.sys, reg.name, reg.stage, reg.access)
	}
	for _, fn := range b.registrations {
		fn(m)
	}
}
