package systems

import (
	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
)

// JumpSkill - имя умения в Breath, которое тратит прыжок.
const JumpSkill = "jump"

// JumpRange - максимальная дальность прыжка (в ходах короля).
const JumpRange = 2

// MoveResult - итог попытки войти в клетку.
type MoveResult struct {
	Passable bool
	Collided bool
	Moved    bool
}

// Acted - ход потрачен: либо сдвинулись, либо с кем-то столкнулись.
func (r MoveResult) Acted() bool {
	return r.Moved || r.Collided
}

// Move - совмещённые перемещение и атака.
//
// Сначала проверяется проходимость клетки, затем каждый обитатель колонки
// получает Collide. Столкновение тратит ход и отменяет само перемещение;
// войти в клетку можно будет на следующем ходу, если она освободится.
func Move(ctx *Context, mover *domain.Entity, to domain.Position) MoveResult {
	var res MoveResult
	if !mover.Alive() || !mover.OnGrid {
		return res
	}

	// 1. Проходимость до столкновения: столкновение может её изменить
	res.Passable = ctx.World.Grid.EntrancePossible(to)

	// 2. Столкновения (за границей колонка пуста)
	for _, id := range ctx.World.Grid.Column(to) {
		target := ctx.World.Entity(id)
		if target == nil || target == mover {
			continue
		}
		if Collide(ctx, target, mover) {
			res.Collided = true
		}
	}

	moveLog := ctx.Log.WithFields(logrus.Fields{
		"component": "movement_system",
		"entity":    mover.Name(),
		"from":      mover.Pos,
		"to":        to,
	})

	if res.Collided || !res.Passable {
		moveLog.WithField("collided", res.Collided).Debug("move did not relocate")
		return res
	}
	// Турели и гнёзда бьют соседей, но с места не сходят
	if mover.Brain != nil && mover.Brain.Kind.Stationary() {
		return res
	}

	// 3. Перемещение
	if err := ctx.World.Relocate(mover, to); err != nil {
		moveLog.WithError(err).Debug("relocation refused by grid")
		return res
	}
	res.Moved = true
	ctx.emit(domain.EventMoved, mover)
	return res
}

// Jump переносит сущность через препятствия на высоте полёта: цель в
// пределах JumpRange, линия до неё свободна, в клетку можно войти, и
// дыхание восстановлено.
func Jump(ctx *Context, e *domain.Entity, to domain.Position) bool {
	if !e.Alive() || !e.OnGrid || e.Breath == nil || !e.Breath.Ready() {
		return false
	}
	if _, ok := e.Breath.Skills[JumpSkill]; !ok {
		return false
	}
	if d := e.Pos.Chebyshev(to); d == 0 || d > JumpRange {
		return false
	}

	line := ctx.World.Grid.TraceLine(e.Pos, to)
	if line[len(line)-1] != to || !ctx.World.Grid.EntrancePossible(to) {
		return false
	}

	from := e.Pos
	if err := ctx.World.Relocate(e, to); err != nil {
		return false
	}
	e.Breath.Spend(JumpSkill)

	ctx.emitAt(domain.EventJumped, e, from)
	ctx.emit(domain.EventMoved, e)
	ctx.Message("%s jumps", e.Name())
	return true
}
