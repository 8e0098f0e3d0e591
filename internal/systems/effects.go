package systems

import (
	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/pkg/utils"
)

// ExplosionItemLoss - вероятность, что предмет в зоне взрыва будет уничтожен.
const ExplosionItemLoss = 0.5

// ApplyEffect применяет эффект предмета от имени user. Эффекты по клетке
// требуют target, остальные действуют на самого user.
func ApplyEffect(ctx *Context, u domain.Usable, user *domain.Entity, target *domain.Position) bool {
	switch u.Effect {
	case enums.EffectHeal:
		return heal(ctx, u, user)
	case enums.EffectRefillAmmo:
		return refillAmmo(ctx, u, user)
	case enums.EffectSpawnConstruction:
		return spawnConstruction(ctx, u, user, target)
	case enums.EffectExplode:
		if target == nil {
			ctx.Message("Better not to blow yourself up")
			return false
		}
		// Снаряд летит до первого препятствия
		line := ctx.World.Grid.TraceLine(user.Pos, *target)
		Explode(ctx, user, line[len(line)-1], u.Values)
		return true
	}
	return false
}

func heal(ctx *Context, u domain.Usable, user *domain.Entity) bool {
	if user.Fighter == nil {
		return false
	}
	healed := user.Fighter.Heal(utils.Roll(ctx.Rng, u.Values))
	ctx.emit(domain.EventHPChanged, user)
	ctx.Message("%s healed for %d", user.Name(), healed)
	return true
}

func refillAmmo(ctx *Context, u domain.Usable, user *domain.Entity) bool {
	f := user.Fighter
	if f == nil || f.MaxAmmo == 0 {
		return false
	}
	amount := f.MaxAmmo
	if len(u.Values) > 0 {
		amount = utils.Roll(ctx.Rng, u.Values)
	}
	added := f.Refill(amount)
	ctx.emit(domain.EventAmmoChanged, user)
	ctx.Message("%s reloads %d rounds", user.Name(), added)
	return true
}

// spawnConstruction ставит прототип на свою или соседнюю клетку, если слой
// построек там пуст.
func spawnConstruction(ctx *Context, u domain.Usable, user *domain.Entity, target *domain.Position) bool {
	at := user.Pos
	if target != nil {
		at = *target
	}
	if at.Chebyshev(user.Pos) > 1 || !ctx.World.Grid.Get(domain.LayerConstructions, at).IsNil() {
		return false
	}
	if !ctx.World.Grid.InBounds(at) {
		return false
	}

	c, ok := ctx.build(u.Prototype)
	if !ok {
		ctx.Log.WithField("prototype", u.Prototype).Warn("unknown construction prototype")
		return false
	}
	if _, err := ctx.World.Spawn(c, at); err != nil {
		ctx.Log.WithError(err).Warn("failed to spawn construction")
		return false
	}
	ctx.emit(domain.EventConstructionSpawned, c)
	ctx.Message("%s placed %s", user.Name(), c.Name())
	return true
}

// Explode бьёт всех бойцов в квадрате 3×3 вокруг center; каждый предмет в
// зоне уничтожается с вероятностью ExplosionItemLoss.
func Explode(ctx *Context, source *domain.Entity, center domain.Position, values []int) {
	ctx.emitAt(domain.EventExploded, source, center)
	ctx.Message("Explosion at %s", center)

	cells := append([]domain.Position{center}, ctx.World.Grid.Neighbors8(center)...)
	for _, p := range cells {
		if !ctx.World.Grid.InBounds(p) {
			continue
		}
		for _, id := range ctx.World.Grid.Column(p) {
			e := ctx.World.Entity(id)
			if !e.Alive() {
				continue
			}
			switch {
			case e.Fighter != nil:
				ApplyDamage(ctx, e, utils.Roll(ctx.Rng, values))
			case e.Layer == domain.LayerItems && utils.Chance(ctx.Rng, ExplosionItemLoss):
				ctx.emit(domain.EventWasDestroyed, e)
				ctx.World.Destroy(e)
			}
		}
	}
}
