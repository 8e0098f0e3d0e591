package domain

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-engine/internal/core/types/enums"
)

func TestWorld_SpawnOrder(t *testing.T) {
	w := openWorld(t, 5, 5)

	npc := fighter("npc", 3)
	_, err := w.Spawn(npc, Position{1, 1})
	require.NoError(t, err)

	pc := fighter("pc", 10)
	_, err = w.SpawnPrimary(pc, Position{2, 2})
	require.NoError(t, err)

	tower := wall()
	_, err = w.Spawn(tower, Position{4, 4})
	require.NoError(t, err)

	// Главный актёр вставляется в начало очереди
	actors := w.Actors()
	require.Len(t, actors, 2)
	assert.Same(t, pc, actors[0])
	assert.Same(t, npc, actors[1])
	assert.Same(t, pc, w.Primary())
	assert.Equal(t, []*Entity{tower}, w.Constructions())

	_, err = w.SpawnPrimary(wall(), Position{0, 0})
	assert.Error(t, err)
}

func TestWorld_SpawnOccupied(t *testing.T) {
	w := openWorld(t, 3, 3)
	_, err := w.Spawn(fighter("a", 1), Position{1, 1})
	require.NoError(t, err)

	b := fighter("b", 1)
	_, err = w.Spawn(b, Position{1, 1})
	assert.True(t, eris.Is(err, ErrOccupied))
	assert.True(t, b.ID.IsNil(), "failed spawn must not leak an arena slot")
	assert.Len(t, w.Actors(), 1)
}

func TestWorld_DestroyAndReap(t *testing.T) {
	w := openWorld(t, 3, 3)
	npc := fighter("npc", 1)
	npc.Inventory = &Inventory{Volume: 2}
	potion := NewEntity(enums.EntityKindItem, 0)
	w.Adopt(potion)
	require.NoError(t, npc.Inventory.Append(potion.ID))

	id, err := w.Spawn(npc, Position{1, 1})
	require.NoError(t, err)

	assert.True(t, w.Destroy(npc))
	assert.False(t, w.Destroy(npc), "second destroy is a no-op")
	assert.True(t, w.Grid.Get(LayerActors, Position{1, 1}).IsNil())
	assert.Empty(t, w.Actors(), "destroyed actors do not take turns")

	// До Reap сущность ещё разрешается - слушатели могут прочитать её имя
	assert.NotNil(t, w.Entity(id))

	assert.Equal(t, 1, w.Reap())
	assert.Nil(t, w.Entity(id))
	assert.Nil(t, w.Entity(potion.ID))
}

func TestWorld_LiftPlaceRelocate(t *testing.T) {
	w := openWorld(t, 3, 3)
	e := fighter("pc", 1)
	_, err := w.Spawn(e, Position{0, 0})
	require.NoError(t, err)

	require.NoError(t, w.Relocate(e, Position{1, 0}))
	assert.Equal(t, Position{1, 0}, e.Pos)
	assert.Equal(t, e.ID, w.Grid.Get(LayerActors, Position{1, 0}))

	require.NoError(t, w.Lift(e))
	assert.False(t, e.OnGrid)
	assert.True(t, eris.Is(w.Relocate(e, Position{2, 2}), ErrNotOnGrid))

	require.NoError(t, w.Place(e, Position{2, 2}))
	assert.Equal(t, Position{2, 2}, e.Pos)
}

func TestMessageLog(t *testing.T) {
	l := NewMessageLog(2)
	l.Add("a")
	l.Add("b")
	l.Add("c")
	assert.Equal(t, []string{"b", "c"}, l.Last(5))
	assert.Equal(t, []string{"c"}, l.Last(1))
}
