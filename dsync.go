// Package dsync provides a generic entity data-synchronization engine for
// retained-object worlds: data flows from subject entities to observer
// entities automatically whenever a subject's component changes, without the
// subject knowing who observes it.
//
// DSYNC is built from a handful of pieces:
//   - A World of entities with typed component storage and change tracking
//   - Subject and Observer capability interfaces adapters implement
//   - A per-subject ObserverList recording who is interested, per data triple
//   - A deferred link command that registers interest and pushes current
//     values immediately
//   - A change-propagation pass per registered (data, subject, observer)
//     triple, scheduled after application logic each tick
//
// # Quick Start
//
// Initialize a manager and register a sync triple:
//
//	bundle := dsync.NewBundle("ui").
//	    Register(func(m *dsync.Manager) {
//	        dsync.Register[string, Card, Label](m)
//	    })
//
//	mngr := dsync.NewBuilder().
//	    Bundle(bundle).
//	    Init()
//
//	w := mngr.World()
//	card := w.Spawn()
//	dsync.Add(w, card, &Card{Title: "Hello World!"})
//
//	label := w.Spawn()
//	dsync.Add(w, label, &Label{})
//	dsync.Link[string, Card, Label](w, label, card)
//
//	mngr.Tick() // label.Text == "Hello World!"
//
// # Capabilities
//
// A subject component exposes a value:
//
//	func (c Card) Give() string { return c.Title }
//
// An observer component absorbs one:
//
//	func (l *Label) Receive(data string, _ reflect.Value, _ *dsync.AssetServer, _ dsync.Entity) {
//	    l.Text = data
//	}
//
// Mutate subjects through Mut so change tracking sees the write:
//
//	dsync.Mut[Card](w, card).Title = "Farewell World!"
//
// # Lifecycle
//
// Observers that are despawned stay in their lists until the next pass that
// touches them, then are pruned silently. Cloning a group of entities with
// World.CloneEntities rewrites every ObserverList through the old-to-new
// entity map and fails the clone if a list references an entity outside the
// group.
package dsync

// Version is the DSYNC version.
const Version = "1.0.0"
