package systems

import (
	"camp-engine/internal/domain"
)

// Grab поднимает предмет из-под ног в конец инвентаря.
func Grab(ctx *Context, actor *domain.Entity) bool {
	inv := actor.Inventory
	if !actor.Alive() || !actor.OnGrid || inv == nil {
		return false
	}
	item := ctx.World.Grid.Entity(domain.LayerItems, actor.Pos)
	if item == nil {
		return false
	}
	if inv.Full() {
		ctx.Message("%s cannot carry any more", actor.Name())
		return false
	}

	if err := ctx.World.Lift(item); err != nil {
		ctx.Log.WithError(err).Warn("failed to lift item")
		return false
	}
	// Full уже проверен, Append не откажет
	_ = inv.Append(item.ID)

	ctx.emit(domain.EventPickedUp, actor)
	ctx.emit(domain.EventInventoryUpdated, actor)
	ctx.Message("%s picked up %s", actor.Name(), item.Name())
	return true
}

// Drop кладёт предмет с индексом index на клетку владельца, если слой
// предметов там свободен.
func Drop(ctx *Context, actor *domain.Entity, index int) bool {
	inv := actor.Inventory
	if !actor.OnGrid || inv == nil {
		return false
	}
	id, ok := inv.At(index)
	if !ok || !ctx.World.Grid.Get(domain.LayerItems, actor.Pos).IsNil() {
		return false
	}
	item, err := ctx.World.Store.Lookup(id)
	if err != nil {
		ctx.Log.WithError(err).Warn("inventory slot points to a removed item")
		inv.Remove(index)
		return false
	}

	if err := ctx.World.Place(item, actor.Pos); err != nil {
		ctx.Log.WithError(err).Warn("failed to place dropped item")
		return false
	}
	inv.Remove(index)

	ctx.emit(domain.EventDropped, item)
	ctx.emit(domain.EventInventoryUpdated, actor)
	ctx.Message("%s dropped %s", actor.Name(), item.Name())
	return true
}

// UseItem применяет предмет из инвентаря. Одноразовый предмет исчезает
// только после успешного применения.
func UseItem(ctx *Context, actor *domain.Entity, index int, target *domain.Position) bool {
	inv := actor.Inventory
	if !actor.Alive() || inv == nil {
		return false
	}
	id, ok := inv.At(index)
	if !ok {
		return false
	}
	item := ctx.World.Entity(id)
	if item == nil || item.Usable == nil {
		return false
	}

	if !ApplyEffect(ctx, *item.Usable, actor, target) {
		return false
	}
	if item.Usable.Consumable {
		inv.Remove(index)
		ctx.World.Destroy(item)
		ctx.emit(domain.EventInventoryUpdated, actor)
	}
	return true
}
