package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
)

func TestGrabAndDrop(t *testing.T) {
	ctx := newContext(t, 3, 3)
	pc := fighter("pc", "player", 10, nil, nil)
	pc.Inventory = &domain.Inventory{Volume: 1}
	spawn(t, ctx, pc, 1, 1)
	item := spawn(t, ctx, potion(enums.EffectHeal, 2), 1, 1)

	require.True(t, Grab(ctx, pc))
	assert.False(t, item.OnGrid)
	assert.Equal(t, []domain.EventType{domain.EventPickedUp, domain.EventInventoryUpdated},
		pendingTypes(ctx, domain.EventPickedUp, domain.EventInventoryUpdated))
	assert.Equal(t, 0, pc.Inventory.IndexOf(item.ID))

	// Под ногами пусто
	assert.False(t, Grab(ctx, pc))

	require.True(t, Drop(ctx, pc, 0))
	assert.True(t, item.OnGrid)
	assert.Equal(t, pc.Pos, item.Pos)
	assert.Zero(t, pc.Inventory.Len())

	// Неверный индекс
	assert.False(t, Drop(ctx, pc, 0))
}

func TestGrab_FullInventory(t *testing.T) {
	ctx := newContext(t, 3, 3)
	pc := fighter("pc", "player", 10, nil, nil)
	pc.Inventory = &domain.Inventory{Volume: 0}
	spawn(t, ctx, pc, 1, 1)
	item := spawn(t, ctx, potion(enums.EffectHeal, 2), 1, 1)

	assert.False(t, Grab(ctx, pc))
	assert.True(t, item.OnGrid)
	assert.Equal(t, []string{"pc cannot carry any more"}, ctx.World.Log.Last(1))
}

func TestDrop_ItemsLayerBusy(t *testing.T) {
	ctx := newContext(t, 3, 3)
	pc := fighter("pc", "player", 10, nil, nil)
	pc.Inventory = &domain.Inventory{Volume: 2}
	spawn(t, ctx, pc, 1, 1)
	spawn(t, ctx, potion(enums.EffectHeal, 1), 1, 1)

	carried := potion(enums.EffectHeal, 2)
	ctx.World.Adopt(carried)
	require.NoError(t, pc.Inventory.Append(carried.ID))

	assert.False(t, Drop(ctx, pc, 0))
	assert.Equal(t, 1, pc.Inventory.Len())
}

func TestDrop_RemovedItemClearsSlot(t *testing.T) {
	ctx := newContext(t, 3, 3)
	pc := fighter("pc", "player", 10, nil, nil)
	pc.Inventory = &domain.Inventory{Volume: 2}
	spawn(t, ctx, pc, 1, 1)

	carried := potion(enums.EffectHeal, 2)
	ctx.World.Adopt(carried)
	require.NoError(t, pc.Inventory.Append(carried.ID))
	// Предмет ушёл из арены, а ссылка в инвентаре осталась
	require.True(t, ctx.World.Store.Remove(carried.ID))

	assert.False(t, Drop(ctx, pc, 0))
	assert.Zero(t, pc.Inventory.Len())
	assert.True(t, ctx.World.Grid.Get(domain.LayerItems, pc.Pos).IsNil())
}

func TestUseItem_ConsumesOnlyOnSuccess(t *testing.T) {
	ctx := newContext(t, 3, 3)
	pc := fighter("pc", "player", 10, nil, nil)
	pc.Fighter.HP = 4
	pc.Inventory = &domain.Inventory{Volume: 2}
	spawn(t, ctx, pc, 1, 1)

	heal := potion(enums.EffectHeal, 5)
	bomb := potion(enums.EffectExplode, 3)
	for _, it := range []*domain.Entity{heal, bomb} {
		ctx.World.Adopt(it)
		require.NoError(t, pc.Inventory.Append(it.ID))
	}

	require.True(t, UseItem(ctx, pc, 0, nil))
	assert.Equal(t, 9, pc.Fighter.HP)
	assert.True(t, heal.Destroyed)
	assert.Equal(t, 0, pc.Inventory.IndexOf(bomb.ID))

	// Взрыв без цели отклоняется, бомба остаётся
	assert.False(t, UseItem(ctx, pc, 0, nil))
	assert.False(t, bomb.Destroyed)
	assert.Equal(t, []string{"Better not to blow yourself up"}, ctx.World.Log.Last(1))

	assert.False(t, UseItem(ctx, pc, 5, nil))
}

func pendingTypes(ctx *Context, keep ...domain.EventType) []domain.EventType {
	var out []domain.EventType
	for _, ev := range ctx.Events.Pending() {
		for _, k := range keep {
			if ev.Type == k {
				out = append(out, ev.Type)
			}
		}
	}
	return out
}
