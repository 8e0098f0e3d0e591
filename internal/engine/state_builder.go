package engine

import (
	"fmt"

	"camp-engine/internal/domain"
	"camp-engine/pkg/api"
)

// VisibleLogLines - сколько последних строк лога уходит клиенту в снимке.
const VisibleLogLines = 10

// BuildState создает "снимок" мира для клиента: все сущности на сетке,
// размеры карты и хвост лога.
func BuildState(sim *Simulation, msgType string) api.ServerMessage {
	w := sim.World
	msg := api.ServerMessage{
		Type: msgType,
		Turn: sim.Turn,
		Grid: &api.GridMeta{Width: w.Grid.Width(), Height: w.Grid.Height()},
		Logs: w.Log.Last(VisibleLogLines),
	}

	w.Store.Each(func(e *domain.Entity) {
		if e.Alive() && e.OnGrid {
			msg.Entities = append(msg.Entities, ToEntityView(w, e))
		}
	})
	return msg
}

// ToEntityView - сущность в виде для клиента.
func ToEntityView(w *domain.World, e *domain.Entity) api.EntityView {
	r, g, b := e.Glyph.RGB()
	view := api.EntityView{
		ID:     e.ID.String(),
		Kind:   e.Kind.String(),
		Name:   e.Name(),
		Layer:  e.Layer.String(),
		X:      e.Pos.X,
		Y:      e.Pos.Y,
		Symbol: string(rune(e.Glyph.Char())),
		Color:  fmt.Sprintf("#%02x%02x%02x", r, g, b),
	}

	if f := e.Fighter; f != nil {
		view.Stats = &api.StatsView{HP: f.HP, MaxHP: f.MaxHP, Ammo: f.Ammo, MaxAmmo: f.MaxAmmo}
		if e.Breath != nil {
			view.Stats.Breath = e.Breath.Counter
		}
	}
	if e.Inventory != nil {
		for _, id := range e.Inventory.Items {
			if item := w.Entity(id); item != nil {
				view.Inventory = append(view.Inventory, item.Name())
			}
		}
	}
	return view
}
