package engine

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/internal/events"
	"camp-engine/internal/infrastructure/storage"
	"camp-engine/pkg/api"
)

func testConfig() Config {
	cfg := NewConfig()
	cfg.Seed = 7
	return cfg
}

func spawnerAt(t *testing.T, w *domain.World, x, y int) *domain.Entity {
	t.Helper()
	nest := domain.NewEntity(enums.EntityKindConstruction, types.MakeGlyph(types.ColorHazard, 'O'))
	nest.Descriptor = &domain.Descriptor{Name: "rat nest"}
	nest.Spawner = &domain.Spawner{Prototype: "rat", Frequency: 1}
	return place(t, w, nest, x, y)
}

func TestProcessTurn_WalkIntoEnemyResolvesMelee(t *testing.T) {
	w := floorWorld(t, 5, 5)
	pc := placeHero(t, w, newFighter("pc", "player", 10, []int{3}, []int{1}), 2, 2)
	npc := place(t, w, newFighter("npc", "monsters", 10, []int{1}, []int{0}), 2, 3)
	sim := NewSimulation(testConfig(), w)

	rec := &events.Recorder{}
	sim.Events.RegisterListener(rec)

	acted, err := sim.ProcessTurn(api.Walk(0, 1))
	require.NoError(t, err)

	assert.True(t, acted)
	assert.Equal(t, 7, npc.Fighter.HP)
	assert.Equal(t, domain.Position{X: 2, Y: 2}, pc.Pos)
	assert.Equal(t, 1, rec.Count(domain.EventAttacked))
	assert.Zero(t, rec.Count(domain.EventMoved))
}

func TestProcessTurn_FailedPrimaryActionGatesEveryone(t *testing.T) {
	water := domain.Position{X: 3, Y: 2}
	w := floorWorld(t, 5, 5, water)
	placeHero(t, w, newFighter("pc", "player", 10, []int{3}, []int{1}), 2, 2)
	g := place(t, w, goblin("goblin"), 0, 0)
	nest := spawnerAt(t, w, 4, 4)
	sim := NewSimulation(testConfig(), w, WithPrototypes(testPrototypes()))

	rec := &events.Recorder{}
	sim.Events.RegisterListener(rec)

	acted, err := sim.ProcessTurn(api.Walk(1, 0))
	require.NoError(t, err)

	assert.False(t, acted)
	assert.Equal(t, domain.Position{X: 0, Y: 0}, g.Pos)
	assert.Zero(t, nest.Spawner.Counter)
	assert.Len(t, w.Actors(), 2)
	assert.Equal(t, []domain.EventType{domain.EventQueueExhausted}, rec.Types())
	assert.Zero(t, sim.Events.Len())
	assert.Equal(t, PhaseIdle, sim.Phase())
}

func TestProcessTurn_SuccessLetsOthersActOnFreshField(t *testing.T) {
	w := floorWorld(t, 5, 5)
	pc := placeHero(t, w, newFighter("pc", "player", 10, []int{3}, []int{1}), 2, 2)
	g := place(t, w, goblin("goblin"), 0, 0)
	spawnerAt(t, w, 4, 4)
	sim := NewSimulation(testConfig(), w, WithPrototypes(testPrototypes()))

	acted, err := sim.ProcessTurn(api.Walk(-1, 0))
	require.NoError(t, err)
	require.True(t, acted)

	// Гоблин шёл по полю, уже пересчитанному под новое место игрока
	assert.Equal(t, 1, g.Pos.Chebyshev(pc.Pos))
	v, ok := sim.Fields.Combined(map[string]int{FieldPC: 1}, pc.Pos)
	require.True(t, ok)
	assert.Zero(t, v)

	rat := w.Grid.Entity(domain.LayerActors, domain.Position{X: 4, Y: 4})
	require.NotNil(t, rat)
	assert.Equal(t, "rat", rat.Name())
}

func TestProcessTurn_DrainIsIdempotent(t *testing.T) {
	w := floorWorld(t, 3, 3)
	placeHero(t, w, newFighter("pc", "player", 10, []int{3}, []int{1}), 1, 1)
	sim := NewSimulation(testConfig(), w)

	_, err := sim.ProcessTurn(api.Wait())
	require.NoError(t, err)

	rec := &events.Recorder{}
	sim.Events.RegisterListener(rec)
	assert.Equal(t, 1, sim.Events.PassAllEvents())
	assert.Equal(t, []domain.EventType{domain.EventQueueExhausted}, rec.Types())
}

func TestProcessTurn_RejectsInvalidCommand(t *testing.T) {
	w := floorWorld(t, 3, 3)
	placeHero(t, w, newFighter("pc", "player", 10, nil, nil), 1, 1)
	sim := NewSimulation(testConfig(), w)

	_, err := sim.ProcessTurn(domain.Command{Type: domain.CommandType(99)})
	require.Error(t, err)
	assert.True(t, eris.Is(err, domain.ErrInvalidCommand))
	assert.Zero(t, sim.Turn)
}

func TestProcessTurn_BadPayloadIsAnEmptyTurn(t *testing.T) {
	w := floorWorld(t, 3, 3)
	placeHero(t, w, newFighter("pc", "player", 10, nil, nil), 1, 1)
	sim := NewSimulation(testConfig(), w)

	cmd, err := domain.NewCommand(domain.CommandWalk, []byte(`{"dx":5,"dy":0}`))
	require.NoError(t, err)

	acted, err := sim.ProcessTurn(cmd)
	assert.Error(t, err)
	assert.False(t, acted)
	assert.Equal(t, 1, sim.Turn)
	assert.Zero(t, sim.Events.Len())
}

func TestProcessTurn_ReentryIsRefused(t *testing.T) {
	w := floorWorld(t, 3, 3)
	placeHero(t, w, newFighter("pc", "player", 10, nil, nil), 1, 1)
	sim := NewSimulation(testConfig(), w)

	var inner error
	sim.Events.RegisterListener(events.ListenerFunc(func(ev domain.GameEvent) {
		if ev.Type == domain.EventQueueExhausted && inner == nil {
			_, inner = sim.ProcessTurn(api.Wait())
		}
	}))

	_, err := sim.ProcessTurn(api.Wait())
	require.NoError(t, err)
	require.Error(t, inner)
	assert.True(t, eris.Is(inner, ErrTurnInProgress))
	assert.Equal(t, 1, sim.Turn)
}

func TestProcessTurn_PrimaryDeathEndsGame(t *testing.T) {
	w := floorWorld(t, 3, 1)
	pc := placeHero(t, w, newFighter("pc", "player", 1, []int{0}, nil), 0, 0)
	ogre := newFighter("ogre", "monsters", 50, []int{5}, nil)
	ogre.Brain = &domain.Brain{Kind: enums.BrainMelee, Weights: map[string]int{FieldPC: 1}}
	place(t, w, ogre, 1, 0)
	sim := NewSimulation(testConfig(), w)

	_, err := sim.ProcessTurn(api.Wait())
	require.NoError(t, err)

	assert.True(t, sim.Over)
	assert.True(t, pc.Destroyed)
	assert.Nil(t, w.Primary())

	_, err = sim.ProcessTurn(api.Wait())
	assert.True(t, eris.Is(err, ErrGameOver))
}

func TestProcessTurn_BreathTicksOnOwnersTurn(t *testing.T) {
	w := floorWorld(t, 6, 1)
	pc := newFighter("pc", "player", 10, nil, nil)
	pc.Breath = &domain.Breath{Skills: map[string]int{"jump": 2}}
	placeHero(t, w, pc, 0, 0)
	sim := NewSimulation(testConfig(), w)

	acted, err := sim.ProcessTurn(api.Jump(domain.Position{X: 2, Y: 0}))
	require.NoError(t, err)
	require.True(t, acted)
	assert.Equal(t, domain.Position{X: 2, Y: 0}, pc.Pos)

	// Сразу повторить нельзя
	acted, err = sim.ProcessTurn(api.Jump(domain.Position{X: 4, Y: 0}))
	require.NoError(t, err)
	assert.False(t, acted)

	acted, err = sim.ProcessTurn(api.Jump(domain.Position{X: 4, Y: 0}))
	require.NoError(t, err)
	assert.True(t, acted)
}

func TestProcessTurn_ExitSwitchesLevelCarryingInventory(t *testing.T) {
	sim, err := Start(testConfig(), testLevels{width: 6, height: 6}, testPrototypes())
	require.NoError(t, err)
	hero := sim.World.Primary()

	potion := domain.NewEntity(enums.EntityKindItem, types.MakeGlyph(types.ColorItem, '!'))
	potion.Descriptor = &domain.Descriptor{Name: "potion"}
	sim.World.Adopt(potion)
	require.NoError(t, hero.Inventory.Append(potion.ID))
	hero.Fighter.HP = 11

	oldWorld := sim.World
	acted, err := sim.ProcessTurn(api.Walk(1, 0))
	require.NoError(t, err)
	require.True(t, acted)

	assert.Equal(t, 2, sim.Level)
	assert.NotSame(t, oldWorld, sim.World)
	assert.Zero(t, sim.Events.Len())

	carried := sim.World.Primary()
	require.NotNil(t, carried)
	assert.Equal(t, domain.Position{X: 0, Y: 0}, carried.Pos)
	assert.Equal(t, 11, carried.Fighter.HP)
	require.Equal(t, 1, carried.Inventory.Len())
	assert.Equal(t, "potion", sim.World.Entity(carried.Inventory.Items[0]).Name())

	// Поле игрока привязано к новому миру
	v, ok := sim.Fields.Combined(map[string]int{FieldPC: 1}, carried.Pos)
	require.True(t, ok)
	assert.Zero(t, v)
}

func TestSwitchLevel_WithoutSource(t *testing.T) {
	w := floorWorld(t, 2, 2)
	placeHero(t, w, newFighter("pc", "player", 10, nil, nil), 0, 0)
	sim := NewSimulation(testConfig(), w)

	assert.True(t, eris.Is(sim.SwitchLevel(2), ErrNoLevels))
}

// script - фиксированная последовательность команд для проверок воспроизводимости.
func script() []domain.Command {
	return []domain.Command{
		api.Walk(1, 1), api.Walk(1, 1), api.Wait(), api.Walk(1, 0),
		api.Walk(0, 1), api.Grab(), api.Wait(), api.Walk(-1, 1),
		api.Walk(1, 1), api.Wait(), api.Walk(1, 0), api.Walk(0, 1),
	}
}

func TestSimulation_DeterministicForSeed(t *testing.T) {
	run := func() (*storage.Snapshot, []domain.EventType) {
		sim, err := Start(testConfig(), testLevels{width: 8, height: 8}, testPrototypes())
		require.NoError(t, err)
		rec := &events.Recorder{}
		sim.Events.RegisterListener(rec)
		for _, cmd := range script() {
			if _, err := sim.ProcessTurn(cmd); eris.Is(err, ErrGameOver) {
				break
			}
		}
		return storage.Capture(sim.World), rec.Types()
	}

	snapA, eventsA := run()
	snapB, eventsB := run()
	assert.Equal(t, snapA, snapB)
	assert.Equal(t, eventsA, eventsB)
}

func TestSimulation_InvariantsHoldBetweenTurns(t *testing.T) {
	sim, err := Start(testConfig(), testLevels{width: 8, height: 8}, testPrototypes())
	require.NoError(t, err)

	for i, cmd := range script() {
		if _, err := sim.ProcessTurn(cmd); eris.Is(err, ErrGameOver) {
			break
		}

		seen := make(map[domain.Layer]map[domain.Position]types.EntityID)
		sim.World.Store.Each(func(e *domain.Entity) {
			if f := e.Fighter; f != nil {
				assert.LessOrEqual(t, f.HP, f.MaxHP, "turn %d: %s", i, e.Name())
			}
			if !e.OnGrid {
				return
			}
			if seen[e.Layer] == nil {
				seen[e.Layer] = make(map[domain.Position]types.EntityID)
			}
			other, dup := seen[e.Layer][e.Pos]
			assert.False(t, dup, "turn %d: %s and %s share %s on %s", i, e.ID, other, e.Pos, e.Layer)
			seen[e.Layer][e.Pos] = e.ID
			assert.Equal(t, e.ID, sim.World.Grid.Get(e.Layer, e.Pos))
		})
	}
}

func TestReplay_ReproducesSimulation(t *testing.T) {
	levels := testLevels{width: 8, height: 8}
	sim, err := Start(testConfig(), levels, testPrototypes())
	require.NoError(t, err)
	for _, cmd := range script() {
		if _, err := sim.ProcessTurn(cmd); eris.Is(err, ErrGameOver) {
			break
		}
	}

	replayed, err := Replay(NewConfig(), sim.Replay, levels, testPrototypes())
	require.NoError(t, err)

	assert.Equal(t, sim.Turn, replayed.Turn)
	assert.Equal(t, storage.Capture(sim.World), storage.Capture(replayed.World))
}

func TestPlayerController_BufferIsConsumedOnce(t *testing.T) {
	p := &PlayerController{}
	_, ok := p.ChooseCommand(nil, nil)
	assert.False(t, ok)

	p.AcceptCommand(api.Wait())
	p.AcceptCommand(api.Grab())
	assert.True(t, p.Pending())

	cmd, ok := p.ChooseCommand(nil, nil)
	require.True(t, ok)
	assert.Equal(t, domain.CommandGrab, cmd.Type)

	_, ok = p.ChooseCommand(nil, nil)
	assert.False(t, ok)
	assert.False(t, p.Pending())
}
