package actions

import (
	"camp-engine/internal/engine/handlers"
	"camp-engine/internal/systems"
	"camp-engine/pkg/api"
)

// HandleWalk - шаг на соседнюю клетку; занятая врагом клетка превращает шаг в удар.
func HandleWalk(ctx handlers.Context, p api.DirectionPayload) (bool, error) {
	res := systems.Move(ctx.Context, ctx.Actor, ctx.Actor.Pos.Shift(p.Dx, p.Dy))
	return res.Acted(), nil
}

// HandleWait - пропуск хода. Всегда успешен.
func HandleWait(ctx handlers.Context) (bool, error) {
	return ctx.Actor.Alive(), nil
}
