package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
)

func TestMove_WalkIntoEnemyAttacksWithoutMoving(t *testing.T) {
	ctx := newContext(t, 5, 5)
	pc := spawn(t, ctx, fighter("pc", "player", 10, []int{3}, []int{1}), 2, 2)
	npc := spawn(t, ctx, fighter("goblin", "monsters", 10, []int{1}, []int{0}), 2, 3)

	res := Move(ctx, pc, domain.Position{X: 2, Y: 3})

	assert.True(t, res.Collided)
	assert.False(t, res.Moved)
	assert.True(t, res.Acted())
	assert.Equal(t, 7, npc.Fighter.HP)
	assert.Equal(t, domain.Position{X: 2, Y: 2}, pc.Pos)
	assert.Equal(t, 1, pendingCount(ctx, domain.EventAttacked))
	assert.Equal(t, 1, pendingCount(ctx, domain.EventHPChanged))
}

func TestMove_EmptyCellRelocates(t *testing.T) {
	ctx := newContext(t, 5, 5)
	pc := spawn(t, ctx, fighter("pc", "player", 10, []int{3}, []int{1}), 2, 2)

	res := Move(ctx, pc, domain.Position{X: 3, Y: 3})

	assert.True(t, res.Moved)
	assert.False(t, res.Collided)
	assert.Equal(t, domain.Position{X: 3, Y: 3}, pc.Pos)
	assert.Equal(t, pc.ID, ctx.World.Grid.Get(domain.LayerActors, domain.Position{X: 3, Y: 3}))
	assert.True(t, ctx.World.Grid.Get(domain.LayerActors, domain.Position{X: 2, Y: 2}).IsNil())
	assert.Equal(t, 1, pendingCount(ctx, domain.EventMoved))
}

func TestMove_WallAndBorderRefuse(t *testing.T) {
	ctx := newContext(t, 5, 5)
	pc := spawn(t, ctx, fighter("pc", "player", 10, []int{3}, []int{1}), 0, 0)
	spawn(t, ctx, wall(), 1, 0)

	tests := []struct {
		name string
		to   domain.Position
	}{
		{"wall", domain.Position{X: 1, Y: 0}},
		{"outside", domain.Position{X: -1, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Move(ctx, pc, tt.to)
			assert.False(t, res.Acted())
			assert.False(t, res.Passable)
			assert.Equal(t, domain.Position{X: 0, Y: 0}, pc.Pos)
		})
	}
	assert.Zero(t, ctx.Events.Len())
}

func TestMove_FriendlyFlagLetsAlliesIn(t *testing.T) {
	ctx := newContext(t, 3, 3)
	pc := spawn(t, ctx, fighter("pc", "player", 10, []int{3}, []int{1}), 0, 0)

	flag := fighter("flag", "player", 5, nil, nil)
	flag.Kind = enums.EntityKindConstruction
	flag.Layer = domain.LayerConstructions
	flag.Passable = true
	flag.AllowEntrance = true
	spawn(t, ctx, flag, 1, 0)

	res := Move(ctx, pc, domain.Position{X: 1, Y: 0})

	assert.True(t, res.Moved)
	assert.False(t, res.Collided)
	assert.Equal(t, 5, flag.Fighter.HP)
}

func TestMove_StationaryBrainStaysPut(t *testing.T) {
	ctx := newContext(t, 3, 3)
	nest := spawn(t, ctx, fighter("nest", "monsters", 5, []int{1}, nil), 1, 1)
	nest.Brain = &domain.Brain{Kind: enums.BrainFighterSpawn}

	res := Move(ctx, nest, domain.Position{X: 2, Y: 2})

	assert.False(t, res.Moved)
	assert.Equal(t, domain.Position{X: 1, Y: 1}, nest.Pos)
}

func TestApplyDamage_DeathDropsOneItemAndEmitsOnce(t *testing.T) {
	ctx := newContext(t, 5, 5)
	npc := fighter("goblin", "monsters", 2, []int{1}, []int{0})
	npc.Inventory = &domain.Inventory{Volume: 2}
	spawn(t, ctx, npc, 2, 2)

	for _, item := range []*domain.Entity{potion(enums.EffectHeal, 3), potion(enums.EffectHeal, 4)} {
		ctx.World.Adopt(item)
		require.NoError(t, npc.Inventory.Append(item.ID))
	}
	first, _ := npc.Inventory.At(0)
	at := npc.Pos

	dealt := ApplyDamage(ctx, npc, 5)

	assert.Equal(t, 5, dealt)
	assert.True(t, npc.Destroyed)
	assert.False(t, npc.OnGrid)
	assert.True(t, ctx.World.Grid.Get(domain.LayerActors, at).IsNil())
	assert.Equal(t, first, ctx.World.Grid.Get(domain.LayerItems, at))
	assert.Equal(t, 1, pendingCount(ctx, domain.EventWasDestroyed))
	assert.Equal(t, 1, pendingCount(ctx, domain.EventDropped))

	// Повторная смерть ничего не делает
	assert.False(t, Kill(ctx, npc))
	assert.Zero(t, ApplyDamage(ctx, npc, 5))
	assert.Equal(t, 1, pendingCount(ctx, domain.EventWasDestroyed))
}

func TestKill_OccupiedItemCellKeepsInventory(t *testing.T) {
	ctx := newContext(t, 3, 3)
	npc := fighter("goblin", "monsters", 2, nil, nil)
	npc.Inventory = &domain.Inventory{Volume: 1}
	spawn(t, ctx, npc, 1, 1)
	spawn(t, ctx, potion(enums.EffectHeal, 1), 1, 1)

	carried := potion(enums.EffectHeal, 2)
	ctx.World.Adopt(carried)
	require.NoError(t, npc.Inventory.Append(carried.ID))

	assert.True(t, Kill(ctx, npc))
	assert.Zero(t, pendingCount(ctx, domain.EventDropped))
	assert.False(t, carried.OnGrid)
}

func TestApplyDamage_DefenseAbsorbs(t *testing.T) {
	ctx := newContext(t, 3, 3)
	npc := spawn(t, ctx, fighter("knight", "monsters", 5, nil, []int{4}), 1, 1)

	assert.Zero(t, ApplyDamage(ctx, npc, 3))
	assert.Equal(t, 5, npc.Fighter.HP)
	assert.Equal(t, []string{"knight managed to evade the blow"}, ctx.World.Log.Last(1))
}

func TestShoot(t *testing.T) {
	t.Run("hits the fighter at the end of the line", func(t *testing.T) {
		ctx := newContext(t, 6, 1)
		pc := fighter("pc", "player", 10, nil, nil)
		pc.Fighter.RangedAttack = 4
		pc.Fighter.Ammo, pc.Fighter.MaxAmmo = 1, 3
		spawn(t, ctx, pc, 0, 0)
		npc := spawn(t, ctx, fighter("goblin", "monsters", 10, nil, nil), 4, 0)

		assert.True(t, Shoot(ctx, pc, npc.Pos))
		assert.Equal(t, 6, npc.Fighter.HP)
		assert.Zero(t, pc.Fighter.Ammo)
		assert.Equal(t, 1, pendingCount(ctx, domain.EventShot))

		// Магазин пуст
		assert.False(t, Shoot(ctx, pc, npc.Pos))
	})

	t.Run("wall stops the bullet", func(t *testing.T) {
		ctx := newContext(t, 6, 1)
		pc := fighter("pc", "player", 10, nil, nil)
		pc.Fighter.RangedAttack = 4
		pc.Fighter.Ammo, pc.Fighter.MaxAmmo = 2, 2
		spawn(t, ctx, pc, 0, 0)
		spawn(t, ctx, wall(), 2, 0)
		npc := spawn(t, ctx, fighter("goblin", "monsters", 10, nil, nil), 4, 0)

		assert.True(t, Shoot(ctx, pc, npc.Pos))
		assert.Equal(t, 10, npc.Fighter.HP)
		assert.Equal(t, []string{"pc shoots and misses"}, ctx.World.Log.Last(1))
	})
}
