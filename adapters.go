package dsync

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl64"
)

// Built-in adapters for common data shapes. Each is a 1-3 line conversion
// plugging a concrete component type into the generic engine; anything more
// elaborate belongs in application code.

// Label is a text component. It exposes its own text, so labels can feed
// other labels, and absorbs plain strings.
type Label struct {
	Text string
}

// Give implements Subject[string].
func (l Label) Give() string {
	return l.Text
}

// Receive implements Observer[string].
func (l *Label) Receive(data string, _ reflect.Value, _ *AssetServer, _ Entity) {
	l.Text = data
}

// Image holds a resolved asset handle and absorbs handles directly.
type Image struct {
	Handle Handle
}

// Receive implements Observer[Handle].
func (i *Image) Receive(data Handle, _ reflect.Value, _ *AssetServer, _ Entity) {
	i.Handle = data
}

// Icon holds an asset handle resolved from a path pushed by a subject. The
// asset server turns the path into a handle, loading the asset on first use.
type Icon struct {
	Handle Handle
}

// Receive implements Observer[string].
func (i *Icon) Receive(data string, _ reflect.Value, assets *AssetServer, _ Entity) {
	if assets == nil {
		return
	}
	i.Handle = assets.Load(data)
}

// Swatch is a rich color component that exposes only its top-level color:
// observers tracking the swatch see Color and nothing else.
type Swatch struct {
	Color  mgl64.Vec4
	Accent mgl64.Vec4
	Name   string
}

// Give implements Subject[mgl64.Vec4].
func (s Swatch) Give() mgl64.Vec4 {
	return s.Color
}

// Tint absorbs a color.
type Tint struct {
	Color mgl64.Vec4
}

// Receive implements Observer[mgl64.Vec4].
func (t *Tint) Receive(data mgl64.Vec4, _ reflect.Value, _ *AssetServer, _ Entity) {
	t.Color = data
}
