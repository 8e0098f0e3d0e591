package systems

import (
	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
)

// Collide - реакция target на то, что в него врезался mover. Без бойцов с
// обеих сторон ничего не происходит. Союзник, пускающий своих (флаг,
// платформа), пропускает; все прочие получают удар ближнего боя. Промах
// тоже считается столкновением: ход потрачен.
func Collide(ctx *Context, target, mover *domain.Entity) bool {
	if !target.Alive() || target.Fighter == nil || mover.Fighter == nil {
		return false
	}
	if target.AllowEntrance && target.Faction.IsFriendly(mover.Faction) {
		return false
	}

	ctx.emitAt(domain.EventAttacked, mover, target.Pos)
	ApplyDamage(ctx, target, mover.Fighter.RollAttack(ctx.Rng))
	return true
}

// ApplyDamage бросает защиту цели и наносит max(0, attack - defense).
// Возвращает нанесённый урон. При hp <= 0 цель погибает.
func ApplyDamage(ctx *Context, target *domain.Entity, attack int) int {
	f := target.Fighter
	if f == nil || !target.Alive() {
		return 0
	}

	defense := f.RollDefense(ctx.Rng)
	damage := max(0, attack-defense)
	hpBefore := f.HP
	f.Damage(damage)

	ctx.Log.WithFields(logrus.Fields{
		"component": "combat_system",
		"target":    target.Name(),
		"attack":    attack,
		"defense":   defense,
		"damage":    damage,
		"hp_before": hpBefore,
		"hp_after":  f.HP,
	}).Debug("damage resolved")

	if damage > 0 {
		ctx.Message("%s was hit for %d damage", target.Name(), damage)
	} else {
		ctx.Message("%s managed to evade the blow", target.Name())
	}
	ctx.emit(domain.EventHPChanged, target)

	if f.IsDead() {
		Kill(ctx, target)
	}
	return damage
}

// Kill убирает сущность из мира: первый предмет инвентаря падает на место
// гибели, если там свободно; событие was_destroyed выпускается ровно один
// раз. Повторный вызов ничего не делает.
func Kill(ctx *Context, e *domain.Entity) bool {
	if !e.Alive() {
		return false
	}

	if e.OnGrid && e.Inventory != nil && e.Inventory.Len() > 0 &&
		ctx.World.Grid.Get(domain.LayerItems, e.Pos).IsNil() {
		Drop(ctx, e, 0)
	}

	ctx.Message("%s was killed", e.Name())
	// Событие создаётся до снятия с сетки: место фиксируется сейчас
	ctx.emit(domain.EventWasDestroyed, e)
	ctx.World.Destroy(e)

	ctx.Log.WithFields(logrus.Fields{
		"component": "combat_system",
		"entity":    e.Name(),
		"pos":       e.Pos,
	}).Info("entity destroyed")
	return true
}

// Shoot тратит патрон, ведёт линию к цели и ранит верхнего бойца в её
// конечной клетке. Без бойца или патронов - false. Выстрел в пустоту
// тоже тратит ход.
func Shoot(ctx *Context, shooter *domain.Entity, at domain.Position) bool {
	f := shooter.Fighter
	if !shooter.Alive() || !shooter.OnGrid || f == nil || !f.SpendAmmo() {
		return false
	}
	ctx.emit(domain.EventAmmoChanged, shooter)

	line := ctx.World.Grid.TraceLine(shooter.Pos, at)
	end := line[len(line)-1]
	ctx.emitAt(domain.EventShot, shooter, end)

	if target := ctx.World.TopFighter(end); target != nil && target != shooter {
		ApplyDamage(ctx, target, f.RollRanged(ctx.Rng))
	} else {
		ctx.Message("%s shoots and misses", shooter.Name())
	}
	return true
}
