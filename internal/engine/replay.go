package engine

import (
	"github.com/rotisserie/eris"

	"camp-engine/internal/domain"
	"camp-engine/internal/systems"
)

// Replay заново проигрывает записанную партию: тот же seed, те же команды
// в том же порядке дают тот же мир.
func Replay(cfg Config, session *domain.ReplaySession, levels LevelSource, protos systems.Prototypes) (*Simulation, error) {
	cfg.Seed = session.Seed
	sim, err := Start(cfg, levels, protos)
	if err != nil {
		return nil, err
	}
	return sim, ReplayInto(sim, session.Actions)
}

// ReplayInto подаёт записанные команды в уже созданную симуляцию.
// Отвергнутый payload не прерывает проигрывание: в партии этот ход тоже был пустым.
func ReplayInto(sim *Simulation, actions []domain.ReplayAction) error {
	for _, act := range actions {
		cmd, err := domain.NewCommand(act.Command, act.Payload)
		if err != nil {
			return eris.Wrapf(err, "replay turn %d", act.Turn)
		}
		before := sim.Turn
		if _, err := sim.ProcessTurn(cmd); err != nil && sim.Turn == before {
			return eris.Wrapf(err, "replay turn %d", act.Turn)
		}
	}
	return nil
}
