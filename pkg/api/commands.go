package api

import (
	"github.com/goccy/go-json"

	"camp-engine/internal/domain"
)

// Конструкторы команд для внутренних клиентов (AI, бот, тесты).
// Тип каждой команды заведомо валиден, поэтому ошибки здесь быть не может.

func Walk(dx, dy int) domain.Command {
	return mustCommand(domain.CommandWalk, DirectionPayload{Dx: dx, Dy: dy})
}

// WalkTo - шаг из from в соседнюю клетку to.
func WalkTo(from, to domain.Position) domain.Command {
	return Walk(to.X-from.X, to.Y-from.Y)
}

func Wait() domain.Command {
	return mustCommand(domain.CommandWait, nil)
}

func Grab() domain.Command {
	return mustCommand(domain.CommandGrab, nil)
}

func DropItem(index int) domain.Command {
	return mustCommand(domain.CommandDropItem, ItemPayload{Index: index})
}

// UseItem применяет предмет; target == nil - на себя.
func UseItem(index int, target *domain.Position) domain.Command {
	p := ItemPayload{Index: index}
	if target != nil {
		p.Target = &PositionPayload{X: target.X, Y: target.Y}
	}
	return mustCommand(domain.CommandUseItem, p)
}

func Jump(to domain.Position) domain.Command {
	return mustCommand(domain.CommandJump, PositionPayload{X: to.X, Y: to.Y})
}

func Shoot(at domain.Position) domain.Command {
	return mustCommand(domain.CommandShoot, PositionPayload{X: at.X, Y: at.Y})
}

func mustCommand(t domain.CommandType, payload any) domain.Command {
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			panic("api: cannot encode payload: " + err.Error())
		}
		raw = b
	}
	cmd, err := domain.NewCommand(t, raw)
	if err != nil {
		panic("api: " + err.Error())
	}
	return cmd
}
