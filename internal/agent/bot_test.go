package agent

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-engine/internal/domain"
	"camp-engine/internal/engine"
	"camp-engine/pkg/dungeon"
	"camp-engine/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func mapLevels(t *testing.T, factory *dungeon.Factory, maps ...string) *dungeon.MapLevels {
	t.Helper()
	levels := &dungeon.MapLevels{Factory: factory}
	for _, src := range maps {
		m, err := dungeon.ParseMap(strings.NewReader(src))
		require.NoError(t, err)
		levels.Maps = append(levels.Maps, m)
	}
	return levels
}

func newService(t *testing.T, maps ...string) *engine.GameService {
	t.Helper()
	factory := dungeon.NewFactory()
	cfg := engine.NewConfig()
	cfg.Seed = 1
	sim, err := engine.Start(cfg, mapLevels(t, factory, maps...), factory)
	require.NoError(t, err)
	return engine.NewService(sim, nil)
}

func TestBot_WalksToExitAndDescends(t *testing.T) {
	svc := newService(t,
		"//width 6\n//height 1\n@....>\n",
		"//width 4\n//height 1\n..@.\n",
	)
	bot := NewBot("bot", svc, 8)

	require.NoError(t, bot.Run(context.Background()))

	svc.Do(func(sim *engine.Simulation) {
		assert.Equal(t, 2, sim.Level)
		assert.Equal(t, 8, sim.Turn)
		assert.Equal(t, domain.Position{X: 2, Y: 0}, sim.World.Primary().Pos)
	})
	assert.False(t, svc.Hub.HasSubscriber("bot"))
}

func TestBot_AttacksAdjacentEnemy(t *testing.T) {
	svc := newService(t, "//width 4\n//height 1\n@z.>\n")
	bot := NewBot("bot", svc, 0)

	var before int
	svc.Do(func(sim *engine.Simulation) {
		before = len(sim.World.Actors())
	})
	require.Equal(t, 2, before)

	svc.Do(func(sim *engine.Simulation) {
		cmd := bot.Decide(sim)
		assert.Equal(t, domain.CommandWalk, cmd.Type)
		assert.JSONEq(t, `{"dx":1,"dy":0}`, string(cmd.Payload))
		// Сам герой остаётся без AI
		assert.Nil(t, sim.World.Primary().Brain)
	})
}

func TestBot_StopsOnCancel(t *testing.T) {
	svc := newService(t, "//width 3\n//height 1\n@..\n")
	bot := NewBot("bot", svc, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Без выходов бот только ждёт; отмена прерывает цикл
	err := bot.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
