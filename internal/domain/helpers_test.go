package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
)

// openWorld - поле w×h, выстланное проходимым полом.
func openWorld(t *testing.T, w, h int) *World {
	t.Helper()
	world := NewWorld(w, h, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, err := world.Spawn(NewEntity(enums.EntityKindTile, types.MakeGlyph(types.ColorFloor, '.')), Position{x, y})
			require.NoError(t, err)
		}
	}
	return world
}

func wall() *Entity {
	e := NewEntity(enums.EntityKindConstruction, types.MakeGlyph(types.ColorWall, '#'))
	e.Passable = false
	e.AirPassable = false
	return e
}

func fighter(name string, hp int) *Entity {
	e := NewEntity(enums.EntityKindActor, types.MakeGlyph(types.ColorHostile, 'g'))
	e.Passable = false
	e.Descriptor = &Descriptor{Name: name}
	e.Fighter = &Fighter{MaxHP: hp, HP: hp, Attacks: []int{1}, Defenses: []int{0}}
	return e
}
