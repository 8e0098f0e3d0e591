package engine

import (
	"camp-engine/internal/domain"
	"camp-engine/internal/systems"
)

// Controller выбирает команду для своей сущности на её ходу.
// false - сущности нечего делать, ход не засчитывается.
type Controller interface {
	ChooseCommand(ctx *systems.Context, e *domain.Entity) (domain.Command, bool)
}

// PlayerController хранит не больше одной команды игрока. Команда
// расходуется ровно одним вызовом ChooseCommand, даже если она не удалась.
type PlayerController struct {
	pending *domain.Command
}

// AcceptCommand кладёт команду в буфер, вытесняя непрочитанную.
func (p *PlayerController) AcceptCommand(cmd domain.Command) {
	p.pending = &cmd
}

func (p *PlayerController) Pending() bool {
	return p.pending != nil
}

func (p *PlayerController) ChooseCommand(_ *systems.Context, _ *domain.Entity) (domain.Command, bool) {
	cmd := p.pending
	p.pending = nil
	if cmd == nil {
		return domain.Command{}, false
	}
	return *cmd, true
}

// AIController считает команду синхронно по политике systems.Decide.
type AIController struct{}

func (AIController) ChooseCommand(ctx *systems.Context, e *domain.Entity) (domain.Command, bool) {
	return systems.Decide(ctx, e), true
}
