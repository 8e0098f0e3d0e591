package systems

import (
	"math"

	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/pkg/api"
	"camp-engine/pkg/utils"
)

// Слои, в которых AI ищет цели для выстрела.
var targetLayers = []domain.Layer{domain.LayerActors, domain.LayerConstructions}

// Decide выбирает команду для сущности с Brain. Проверки идут строго по
// приоритету, первая сработавшая побеждает. Без подходящего действия - wait.
func Decide(ctx *Context, e *domain.Entity) domain.Command {
	if !e.Alive() || !e.OnGrid || e.Brain == nil {
		return api.Wait()
	}

	switch e.Brain.Kind {
	case enums.BrainFighterSpawn, enums.BrainShooterSpawn:
		// Соседа бьют вплотную, стреляют только по дальним
		if to, ok := adjacentEnemy(ctx, e); ok {
			return api.WalkTo(e.Pos, to)
		}
		if e.Brain.Kind == enums.BrainShooterSpawn {
			if at, ok := rangedTarget(ctx, e); ok {
				return api.Shoot(at)
			}
		}
		return api.Wait()
	case enums.BrainNone:
		return api.Wait()
	}

	// 1. Полезный сейчас предмет
	if i, ok := usefulItem(ctx, e); ok {
		return api.UseItem(i, nil)
	}
	// 2. Враг по соседству
	if to, ok := adjacentEnemy(ctx, e); ok {
		return api.WalkTo(e.Pos, to)
	}
	// 3. Враг в зоне выстрела
	if at, ok := rangedTarget(ctx, e); ok {
		return api.Shoot(at)
	}
	// 4. Спуск по взвешенной сумме полей
	if to, ok := descend(ctx, e); ok {
		return api.WalkTo(e.Pos, to)
	}
	return api.Wait()
}

// usefulItem ищет в инвентаре предмет, который имеет смысл применить прямо
// сейчас: лечение при ранении, патроны при пустом магазине.
func usefulItem(ctx *Context, e *domain.Entity) (int, bool) {
	if e.Inventory == nil || e.Fighter == nil {
		return 0, false
	}
	for i, id := range e.Inventory.Items {
		item := ctx.World.Entity(id)
		if item == nil || item.Usable == nil {
			continue
		}
		switch item.Usable.Effect {
		case enums.EffectHeal:
			if e.Fighter.Wounded() {
				return i, true
			}
		case enums.EffectRefillAmmo:
			if e.Fighter.OutOfAmmo() {
				return i, true
			}
		}
	}
	return 0, false
}

func isEnemyFighter(e, other *domain.Entity) bool {
	return other.Alive() && other != e && other.Fighter != nil && e.Faction.IsEnemy(other.Faction)
}

// adjacentEnemy - случайная соседняя клетка с вражеским бойцом.
func adjacentEnemy(ctx *Context, e *domain.Entity) (domain.Position, bool) {
	var found []domain.Position
	for _, p := range ctx.World.Grid.Neighbors8(e.Pos) {
		for _, id := range ctx.World.Grid.Column(p) {
			if isEnemyFighter(e, ctx.World.Entity(id)) {
				found = append(found, p)
				break
			}
		}
	}
	return utils.Choice(ctx.Rng, found)
}

// rangedTarget - ближайший по длине линии враг в пределах Brain.Range.
func rangedTarget(ctx *Context, e *domain.Entity) (domain.Position, bool) {
	if e.Fighter == nil || !e.Fighter.CanShoot() || e.Brain.Range <= 0 {
		return domain.Position{}, false
	}
	ids := ctx.World.Grid.InRangeTargets(e.Pos, e.Brain.Range, targetLayers, e.Brain.ExcludeAdjacent)
	for _, id := range ids {
		if t := ctx.World.Entity(id); isEnemyFighter(e, t) {
			return t.Pos, true
		}
	}
	return domain.Position{}, false
}

// shouldNotWalk: в клетке стоит не враждебный боец, который не пускает к себе.
// Шаг туда обернулся бы ударом по своему.
func shouldNotWalk(ctx *Context, e *domain.Entity, p domain.Position) bool {
	for _, id := range ctx.World.Grid.Column(p) {
		other := ctx.World.Entity(id)
		if !other.Alive() || other == e || other.Fighter == nil {
			continue
		}
		if !e.Faction.IsEnemy(other.Faction) && !other.AllowEntrance {
			return true
		}
	}
	return false
}

// descend выбирает соседнюю клетку с минимальной суммой полей, не большей
// текущей. Равные минимумы разыгрываются случайно. Если текущая клетка вне
// полей, годится любой определённый сосед.
func descend(ctx *Context, e *domain.Entity) (domain.Position, bool) {
	weights := e.Brain.Weights
	if ctx.Fields == nil || len(weights) == 0 || e.Brain.Kind.Stationary() {
		return domain.Position{}, false
	}

	current, ok := ctx.Fields.Combined(weights, e.Pos)
	if !ok {
		current = math.MaxInt
	}

	best := math.MaxInt
	var candidates []domain.Position
	for _, p := range ctx.World.Grid.Neighbors8(e.Pos) {
		if !ctx.World.Grid.EntrancePossible(p) || shouldNotWalk(ctx, e, p) {
			continue
		}
		v, ok := ctx.Fields.Combined(weights, p)
		if !ok || v > current {
			continue
		}
		switch {
		case v < best:
			best = v
			candidates = append(candidates[:0], p)
		case v == best:
			candidates = append(candidates, p)
		}
	}
	return utils.Choice(ctx.Rng, candidates)
}
