package navigation

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func openWorld(t *testing.T, w, h int) *domain.World {
	t.Helper()
	world := domain.NewWorld(w, h, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, err := world.Spawn(domain.NewEntity(enums.EntityKindTile, 0), domain.Position{X: x, Y: y})
			require.NoError(t, err)
		}
	}
	return world
}

func spawnTagged(t *testing.T, w *domain.World, tag string, p domain.Position) *domain.Entity {
	t.Helper()
	e := domain.NewEntity(enums.EntityKindActor, 0)
	e.Faction = domain.NewFaction(tag, nil, nil)
	_, err := w.Spawn(e, p)
	require.NoError(t, err)
	return e
}

func spawnWall(t *testing.T, w *domain.World, p domain.Position) *domain.Entity {
	t.Helper()
	e := domain.NewEntity(enums.EntityKindConstruction, types.MakeGlyph(types.ColorWall, '#'))
	e.Passable = false
	e.AirPassable = false
	_, err := w.Spawn(e, p)
	require.NoError(t, err)
	return e
}

func tagged(tag string) EntityFilter {
	return func(e *domain.Entity) bool { return e.Faction != nil && e.Faction.Tag == tag }
}

// assertFieldInvariant проверяет: аттракторы - ноль, каждая достигнутая
// клетка на единицу больше минимума соседей.
func assertFieldInvariant(t *testing.T, f *DistanceField) {
	t.Helper()
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			p := domain.Position{X: x, Y: y}
			v := f.Raw(p)
			if v == Impassable || v == Unreachable || v == 0 {
				continue
			}
			best := Unreachable
			for _, d := range domain.Directions8 {
				if nv, ok := f.Value(p.Add(d)); ok && nv < best {
					best = nv
				}
			}
			assert.Equal(t, best+1, v, "cell %s", p)
		}
	}
}

func TestDistanceField_SingleAttractor(t *testing.T) {
	w := openWorld(t, 3, 3)
	spawnTagged(t, w, "pc", domain.Position{X: 0, Y: 0})

	f := NewDistanceField("pc", w, tagged("pc"))

	tests := []struct {
		p    domain.Position
		want int
	}{
		{domain.Position{X: 0, Y: 0}, 0},
		{domain.Position{X: 1, Y: 1}, 1},
		{domain.Position{X: 2, Y: 2}, 2},
		{domain.Position{X: 2, Y: 0}, 2},
		{domain.Position{X: 0, Y: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			v, ok := f.Value(tt.p)
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}
	assertFieldInvariant(t, f)
}

func TestDistanceField_WallsAndUnreachable(t *testing.T) {
	w := openWorld(t, 5, 3)
	spawnTagged(t, w, "pc", domain.Position{X: 0, Y: 1})
	// Сплошная стена по x=2 отрезает правую часть
	for y := 0; y < 3; y++ {
		spawnWall(t, w, domain.Position{X: 2, Y: y})
	}

	f := NewDistanceField("pc", w, tagged("pc"))

	assert.Equal(t, Impassable, f.Raw(domain.Position{X: 2, Y: 1}))
	assert.Equal(t, Unreachable, f.Raw(domain.Position{X: 4, Y: 1}))
	_, ok := f.Value(domain.Position{X: 4, Y: 1})
	assert.False(t, ok, "unreached cell is undefined")
	_, ok = f.Value(domain.Position{X: -1, Y: 0})
	assert.False(t, ok)

	v, ok := f.Value(domain.Position{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assertFieldInvariant(t, f)
}

func TestDistanceField_FactionConstructionDoesNotBlock(t *testing.T) {
	w := openWorld(t, 3, 1)
	spawnTagged(t, w, "pc", domain.Position{X: 0, Y: 0})
	tower := spawnWall(t, w, domain.Position{X: 1, Y: 0})
	tower.Faction = domain.NewFaction("npc", []string{"pc"}, nil)

	f := NewDistanceField("pc", w, tagged("pc"))
	v, ok := f.Value(domain.Position{X: 2, Y: 0})
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestDistanceField_MultipleAttractors(t *testing.T) {
	w := openWorld(t, 7, 1)
	spawnTagged(t, w, "flag", domain.Position{X: 0, Y: 0})
	spawnTagged(t, w, "flag", domain.Position{X: 6, Y: 0})

	f := NewDistanceField("flag", w, tagged("flag"))
	assert.Equal(t, 2, f.AttractorCount())
	v, _ := f.Value(domain.Position{X: 3, Y: 0})
	assert.Equal(t, 3, v)
	v, _ = f.Value(domain.Position{X: 5, Y: 0})
	assert.Equal(t, 1, v)
	assertFieldInvariant(t, f)
}

func TestDistanceField_EventTriggers(t *testing.T) {
	w := openWorld(t, 5, 5)
	pc := spawnTagged(t, w, "pc", domain.Position{X: 0, Y: 0})
	npc := spawnTagged(t, w, "npc", domain.Position{X: 4, Y: 4})
	f := NewDistanceField("pc", w, tagged("pc"))

	t.Run("attractor moved", func(t *testing.T) {
		require.NoError(t, w.Relocate(pc, domain.Position{X: 2, Y: 2}))
		ev, _ := domain.NewGameEvent(domain.EventMoved, pc)
		assert.True(t, f.Observe(ev))
		f.Rebuild()

		v, _ := f.Value(domain.Position{X: 2, Y: 2})
		assert.Equal(t, 0, v)
		v, _ = f.Value(domain.Position{X: 0, Y: 0})
		assert.Equal(t, 2, v)

		// Повтор того же события без сдвига - пересборка не нужна
		assert.False(t, f.Observe(ev))
	})

	t.Run("non attractor moved", func(t *testing.T) {
		ev, _ := domain.NewGameEvent(domain.EventMoved, npc)
		assert.False(t, f.Observe(ev))
	})

	t.Run("attractor destroyed", func(t *testing.T) {
		w.Destroy(pc)
		ev, _ := domain.NewGameEvent(domain.EventWasDestroyed, pc)
		f.ProcessGameEvent(ev)
		assert.False(t, f.HasAttractor(pc.ID))
		_, ok := f.Value(domain.Position{X: 0, Y: 0})
		assert.False(t, ok, "no attractors - nothing is reachable")
	})

	t.Run("wall spawned", func(t *testing.T) {
		wall := spawnWall(t, w, domain.Position{X: 1, Y: 1})
		ev, _ := domain.NewGameEvent(domain.EventConstructionSpawned, wall)
		f.ProcessGameEvent(ev)
		assert.Equal(t, Impassable, f.Raw(domain.Position{X: 1, Y: 1}))
	})
}

func TestSet_Combined(t *testing.T) {
	w := openWorld(t, 5, 1)
	spawnTagged(t, w, "pc", domain.Position{X: 0, Y: 0})
	spawnTagged(t, w, "upgrader", domain.Position{X: 4, Y: 0})
	spawnWall(t, w, domain.Position{X: 2, Y: 0})

	s := NewSet(
		NewDistanceField("pc", w, tagged("pc")),
		NewDistanceField("upgrader", w, tagged("upgrader")),
	)

	v, ok := s.Combined(map[string]int{"pc": 2}, domain.Position{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, 2, v)

	// Поле upgrader за стеной не определено слева - вся сумма не определена
	_, ok = s.Combined(map[string]int{"pc": 1, "upgrader": 1}, domain.Position{X: 1, Y: 0})
	assert.False(t, ok)

	_, ok = s.Combined(map[string]int{"missing": 1}, domain.Position{X: 1, Y: 0})
	assert.False(t, ok)

	assert.Equal(t, []string{"pc", "upgrader"}, s.Names())
}

func TestSet_Refresh(t *testing.T) {
	w := openWorld(t, 4, 4)
	pc := spawnTagged(t, w, "pc", domain.Position{X: 0, Y: 0})
	s := NewSet(NewDistanceField("pc", w, tagged("pc")))

	require.NoError(t, w.Relocate(pc, domain.Position{X: 3, Y: 3}))
	ev, _ := domain.NewGameEvent(domain.EventMoved, pc)

	assert.Equal(t, 1, s.Refresh([]domain.GameEvent{ev}))
	f, _ := s.Get("pc")
	v, _ := f.Value(domain.Position{X: 3, Y: 3})
	assert.Equal(t, 0, v)

	// Уже учтённое событие при разборе очереди не пересобирает поле повторно
	assert.Equal(t, 0, s.Refresh([]domain.GameEvent{ev}))
}
