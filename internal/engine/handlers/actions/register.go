package actions

import (
	"camp-engine/internal/domain"
	"camp-engine/internal/engine/handlers"
)

// Register заполняет таблицу хендлерами всех команд.
func Register(t handlers.Table) {
	t[domain.CommandWalk] = handlers.WithPayload(HandleWalk)
	t[domain.CommandWait] = handlers.WithEmptyPayload(HandleWait)
	t[domain.CommandGrab] = handlers.WithEmptyPayload(HandleGrab)
	t[domain.CommandDropItem] = handlers.WithPayload(HandleDropItem)
	t[domain.CommandUseItem] = handlers.WithPayload(HandleUseItem)
	t[domain.CommandJump] = handlers.WithPayload(HandleJump)
	t[domain.CommandShoot] = handlers.WithPayload(HandleShoot)
}
