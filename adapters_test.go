package dsync

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwatchProjectsTopLevelColor(t *testing.T) {
	m := NewBuilder().
		Bundle(NewBundle("ui").Register(func(m *Manager) {
			Register[mgl64.Vec4, Swatch, Tint](m)
		})).
		Init()
	w := m.World()

	subject := w.Spawn()
	Add(w, subject, &Swatch{
		Color:  mgl64.Vec4{1, 0, 0, 1},
		Accent: mgl64.Vec4{0, 1, 0, 1},
		Name:   "crimson",
	})

	observer := w.Spawn()
	Add(w, observer, &Tint{})

	Link[mgl64.Vec4, Swatch, Tint](w, observer, subject)
	w.Flush()

	tint := Get[Tint](w, observer)
	require.NotNil(t, tint)
	assert.Equal(t, mgl64.Vec4{1, 0, 0, 1}, tint.Color)

	// Only the top-level color crosses the triple; the accent never
	// reaches observers.
	sw := Mut[Swatch](w, subject)
	sw.Color = mgl64.Vec4{0, 0, 1, 1}
	sw.Accent = mgl64.Vec4{1, 1, 1, 1}
	m.Tick()

	assert.Equal(t, mgl64.Vec4{0, 0, 1, 1}, tint.Color)
}

func TestLabelChain(t *testing.T) {
	label := Label{Text: "Hello World!"}
	assert.Equal(t, "Hello World!", label.Give())

	var dst Label
	dst.Receive("Farewell World!", reflect.ValueOf(label), nil, NoEntity)
	assert.Equal(t, "Farewell World!", dst.Text)
}

func TestImageCopiesHandle(t *testing.T) {
	h := Handle{Key: 7, Path: "icons/sword.png"}

	var img Image
	img.Receive(h, reflect.ValueOf(struct{}{}), nil, NoEntity)
	assert.Equal(t, h, img.Handle)
}

func TestIconToleratesNilAssets(t *testing.T) {
	var icon Icon
	icon.Receive("icons/sword.png", reflect.ValueOf(struct{}{}), nil, NoEntity)
	assert.True(t, icon.Handle.IsZero())
}
