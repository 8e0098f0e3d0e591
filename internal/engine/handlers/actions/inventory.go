package actions

import (
	"camp-engine/internal/domain"
	"camp-engine/internal/engine/handlers"
	"camp-engine/internal/systems"
	"camp-engine/pkg/api"
)

func HandleGrab(ctx handlers.Context) (bool, error) {
	return systems.Grab(ctx.Context, ctx.Actor), nil
}

func HandleDropItem(ctx handlers.Context, p api.ItemPayload) (bool, error) {
	return systems.Drop(ctx.Context, ctx.Actor, p.Index), nil
}

// HandleUseItem применяет предмет на себя или, если задан Target, на клетку.
func HandleUseItem(ctx handlers.Context, p api.ItemPayload) (bool, error) {
	var target *domain.Position
	if p.Target != nil {
		target = &domain.Position{X: p.Target.X, Y: p.Target.Y}
	}
	return systems.UseItem(ctx.Context, ctx.Actor, p.Index, target), nil
}
