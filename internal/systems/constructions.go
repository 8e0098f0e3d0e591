package systems

import (
	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
)

// RunConstruction выполняет ход постройки без AI: спавнер, мина или
// апгрейдер. Возвращает true, если постройка что-то сделала.
func RunConstruction(ctx *Context, c *domain.Entity) bool {
	if !c.Alive() || !c.OnGrid {
		return false
	}
	switch {
	case c.Spawner != nil:
		return runSpawner(ctx, c)
	case c.Trap != nil:
		return runTrap(ctx, c)
	case c.Upgrader != nil:
		return runUpgrader(ctx, c)
	}
	return false
}

// runSpawner раз в Frequency ходов выпускает актёра на свою клетку, если она
// свободна. Занятая клетка пропускает выпуск, счётчик всё равно сбрасывается.
func runSpawner(ctx *Context, c *domain.Entity) bool {
	s := c.Spawner
	s.Counter++
	if s.Counter < s.Frequency {
		return false
	}
	s.Counter = 0

	if !ctx.World.Grid.Get(domain.LayerActors, c.Pos).IsNil() {
		return false
	}
	spawned, ok := ctx.build(s.Prototype)
	if !ok {
		ctx.Log.WithField("prototype", s.Prototype).Warn("unknown spawner prototype")
		return false
	}
	if _, err := ctx.World.Spawn(spawned, c.Pos); err != nil {
		ctx.Log.WithError(err).Warn("spawner failed to place actor")
		return false
	}

	ctx.emit(domain.EventActorSpawned, spawned)
	ctx.Log.WithFields(logrus.Fields{
		"component": "construction_system",
		"spawner":   c.Name(),
		"spawned":   spawned.Name(),
		"pos":       c.Pos,
	}).Info("actor spawned")
	return true
}

// runTrap: первый ход мина взводится, потом взрывается под первым же
// актёром и исчезает.
func runTrap(ctx *Context, c *domain.Entity) bool {
	t := c.Trap
	if !t.Primed {
		t.Primed = true
		return true
	}
	if ctx.World.Grid.Get(domain.LayerActors, c.Pos).IsNil() {
		return false
	}

	Explode(ctx, c, c.Pos, t.Effect.Values)
	if c.Alive() {
		ctx.emit(domain.EventWasDestroyed, c)
		ctx.World.Destroy(c)
	}
	return true
}

// runUpgrader заменяет стоящего на нём дружественного актёра-шасси свежей
// копией прототипа.
func runUpgrader(ctx *Context, c *domain.Entity) bool {
	u := c.Upgrader
	chassis := ctx.World.Grid.Entity(domain.LayerActors, c.Pos)
	if !chassis.Alive() || chassis.Descriptor == nil || chassis.Descriptor.Name != u.Chassis {
		return false
	}
	if c.Faction != nil && !c.Faction.IsFriendly(chassis.Faction) {
		return false
	}

	upgraded, ok := ctx.build(u.Prototype)
	if !ok {
		ctx.Log.WithField("prototype", u.Prototype).Warn("unknown upgrade prototype")
		return false
	}

	ctx.emit(domain.EventWasDestroyed, chassis)
	ctx.World.Destroy(chassis)
	if _, err := ctx.World.Spawn(upgraded, c.Pos); err != nil {
		ctx.Log.WithError(err).Warn("upgrader failed to place actor")
		return true
	}
	ctx.emit(domain.EventActorSpawned, upgraded)
	ctx.Message("%s was upgraded to %s", u.Chassis, upgraded.Name())
	return true
}
