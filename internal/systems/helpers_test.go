package systems

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/internal/events"
	"camp-engine/pkg/logger"
	"camp-engine/pkg/utils"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

// protoMap - прототипы для тестов, выдаёт клоны.
type protoMap map[string]*domain.Entity

func (p protoMap) Build(name string) (*domain.Entity, bool) {
	e, ok := p[name]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// newContext - открытое поле w×h с полом и пустой очередью событий.
func newContext(t *testing.T, w, h int) *Context {
	t.Helper()
	world := domain.NewWorld(w, h, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			floor := domain.NewEntity(enums.EntityKindTile, types.MakeGlyph(types.ColorFloor, '.'))
			_, err := world.Spawn(floor, domain.Position{X: x, Y: y})
			require.NoError(t, err)
		}
	}
	return &Context{
		World:      world,
		Events:     events.NewDispatcher(),
		Rng:        utils.NewRand(1),
		Prototypes: protoMap{},
		Log:        logger.Component("systems_test"),
	}
}

func fighter(name, faction string, hp int, attacks, defenses []int) *domain.Entity {
	e := domain.NewEntity(enums.EntityKindActor, types.MakeGlyph(types.ColorHostile, 'g'))
	e.Passable = false
	e.Descriptor = &domain.Descriptor{Name: name}
	e.Fighter = &domain.Fighter{MaxHP: hp, HP: hp, Attacks: attacks, Defenses: defenses}
	e.Faction = domain.NewFaction(faction, []string{enemyOf(faction)}, nil)
	return e
}

func enemyOf(faction string) string {
	if faction == "player" {
		return "monsters"
	}
	return "player"
}

func wall() *domain.Entity {
	e := domain.NewEntity(enums.EntityKindConstruction, types.MakeGlyph(types.ColorWall, '#'))
	e.Passable = false
	e.AirPassable = false
	return e
}

func potion(effect enums.EffectType, values ...int) *domain.Entity {
	e := domain.NewEntity(enums.EntityKindItem, types.MakeGlyph(types.ColorItem, '!'))
	e.Descriptor = &domain.Descriptor{Name: effect.String() + " potion"}
	e.Usable = &domain.Usable{Effect: effect, Values: values, Consumable: true}
	return e
}

func spawn(t *testing.T, ctx *Context, e *domain.Entity, x, y int) *domain.Entity {
	t.Helper()
	_, err := ctx.World.Spawn(e, domain.Position{X: x, Y: y})
	require.NoError(t, err)
	return e
}

func pendingCount(ctx *Context, typ domain.EventType) int {
	n := 0
	for _, ev := range ctx.Events.Pending() {
		if ev.Type == typ {
			n++
		}
	}
	return n
}
