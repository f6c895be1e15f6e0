package dsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverListInsertIdempotent(t *testing.T) {
	list := NewObserverList[Card, Card, Mirror]()

	e := makeEntity(1, 0)
	list.Insert(e)
	list.Insert(e)

	assert.Equal(t, 1, list.Len())
	assert.True(t, list.Has(e))
}

func TestObserverListInitialSet(t *testing.T) {
	a := makeEntity(1, 0)
	b := makeEntity(2, 0)

	list := NewObserverList[Card, Card, Mirror](a, b, a)
	assert.Equal(t, 2, list.Len())
	assert.ElementsMatch(t, []Entity{a, b}, list.Observers())
}

func TestObserverListRemove(t *testing.T) {
	a := makeEntity(1, 0)
	list := NewObserverList[Card, Card, Mirror](a)

	list.Remove(a)
	assert.Equal(t, 0, list.Len())
	assert.False(t, list.Has(a))

	// Removing an absent entity is a no-op.
	list.Remove(a)
	assert.Equal(t, 0, list.Len())
}

func TestObserverListRemapTotal(t *testing.T) {
	a := makeEntity(1, 0)
	b := makeEntity(2, 0)
	list := NewObserverList[Card, Card, Mirror](a, b)

	mapping := NewEntityMap()
	na := makeEntity(10, 0)
	nb := makeEntity(11, 0)
	mapping.Insert(a, na)
	mapping.Insert(b, nb)

	require.NoError(t, list.MapEntities(mapping))
	assert.ElementsMatch(t, []Entity{na, nb}, list.Observers())
}

func TestObserverListRemapMissingEntryFailsAtomically(t *testing.T) {
	a := makeEntity(1, 0)
	b := makeEntity(2, 0)
	list := NewObserverList[Card, Card, Mirror](a, b)

	mapping := NewEntityMap()
	mapping.Insert(a, makeEntity(10, 0))
	// b has no image under the map.

	err := list.MapEntities(mapping)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnmappedEntity)

	// No partial rewrite is visible.
	assert.ElementsMatch(t, []Entity{a, b}, list.Observers())
}

func TestObserverListCloneIsDeep(t *testing.T) {
	a := makeEntity(1, 0)
	list := NewObserverList[Card, Card, Mirror](a)

	cloned, ok := list.CloneComponent().(*ObserverList[Card, Card, Mirror])
	require.True(t, ok)

	cloned.Insert(makeEntity(2, 0))
	assert.Equal(t, 1, list.Len())
	assert.Equal(t, 2, cloned.Len())
}
