package engine

import (
	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
)

// watchDeath завершает игру, когда уничтожен главный актёр.
func (s *Simulation) watchDeath(ev domain.GameEvent) {
	if ev.Type != domain.EventWasDestroyed || ev.Actor != s.World.PrimaryID() || s.Over {
		return
	}
	s.Over = true
	s.log.WithFields(logrus.Fields{"turn": s.Turn, "level": s.Level}).Info("primary actor destroyed, game over")
}

// watchExit запоминает переход, если главный актёр встал на выход.
// Сам переход выполняется после разбора очереди.
func (s *Simulation) watchExit(ev domain.GameEvent) {
	if ev.Type != domain.EventMoved || ev.Actor != s.World.PrimaryID() || !ev.HasLocation {
		return
	}
	c := s.World.Grid.Entity(domain.LayerConstructions, ev.Location)
	if c == nil || c.Exit == nil {
		return
	}
	dest := c.Exit.Destination
	s.exitTo = &dest
	s.log.WithFields(logrus.Fields{"turn": s.Turn, "level": dest}).Info("primary actor reached exit")
}

// journal собирает сообщения лога за ход и по queue_exhausted отдаёт их
// пачкой, дублируя в журнал сервера.
type journal struct {
	sim     *Simulation
	pending int
	last    []string
}

func (j *journal) ProcessGameEvent(ev domain.GameEvent) {
	switch ev.Type {
	case domain.EventLogUpdated:
		j.pending++
	case domain.EventQueueExhausted:
		j.last = j.sim.World.Log.Last(j.pending)
		j.pending = 0
		for _, msg := range j.last {
			j.sim.log.WithField("turn", j.sim.Turn).Debug(msg)
		}
	}
}
