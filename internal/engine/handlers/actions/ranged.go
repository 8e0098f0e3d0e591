package actions

import (
	"camp-engine/internal/domain"
	"camp-engine/internal/engine/handlers"
	"camp-engine/internal/systems"
	"camp-engine/pkg/api"
)

func HandleJump(ctx handlers.Context, p api.PositionPayload) (bool, error) {
	return systems.Jump(ctx.Context, ctx.Actor, domain.Position{X: p.X, Y: p.Y}), nil
}

// HandleShoot - выстрел по клетке. Промах тоже тратит ход, пустой магазин - нет.
func HandleShoot(ctx handlers.Context, p api.PositionPayload) (bool, error) {
	return systems.Shoot(ctx.Context, ctx.Actor, domain.Position{X: p.X, Y: p.Y}), nil
}
