package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/looplab/fsm"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/internal/engine/handlers"
	"camp-engine/internal/engine/handlers/actions"
	"camp-engine/internal/events"
	"camp-engine/internal/navigation"
	"camp-engine/internal/systems"
	"camp-engine/pkg/logger"
	"camp-engine/pkg/utils"
)

// Фазы хода.
const (
	PhaseIdle     = "idle"
	PhaseActing   = "acting"
	PhaseDraining = "draining"
)

// Имена полей расстояний, которые симуляция держит всегда.
const (
	FieldPC       = navigation.FieldPC
	FieldUpgrader = navigation.FieldUpgrader
)

// HeroPrototype - прототип главного актёра для Start.
const HeroPrototype = "hero"

// LevelSource строит мир уровня n и точку входа главного актёра.
type LevelSource interface {
	Generate(level int, rng *rand.Rand) (*domain.World, domain.Position, error)
}

// Simulation представляет собой один запущенный уровень: мир, очередь
// событий, поля расстояний и порядок ходов. Однопоточная: ProcessTurn
// нельзя вызывать параллельно (см. Service).
type Simulation struct {
	World  *domain.World
	Events *events.Dispatcher
	Fields *navigation.Set
	Rng    *rand.Rand

	Turn  int
	Level int
	Over  bool

	Seed   int64
	Replay *domain.ReplaySession

	levels     LevelSource
	prototypes systems.Prototypes
	handlers   handlers.Table

	player *PlayerController
	ai     AIController

	sys     *systems.Context
	phase   *fsm.FSM
	journal *journal
	exitTo  *int

	log *logrus.Entry
}

// Option настраивает симуляцию при создании.
type Option func(s *Simulation)

func WithPrototypes(p systems.Prototypes) Option {
	return func(s *Simulation) { s.prototypes = p }
}

func WithLevels(src LevelSource) Option {
	return func(s *Simulation) { s.levels = src }
}

// NewSimulation оборачивает готовый мир. Главный актёр уже должен стоять
// в мире (SpawnPrimary).
func NewSimulation(cfg Config, world *domain.World, opts ...Option) *Simulation {
	return newSimulation(cfg, utils.NewRand(cfg.Seed), world, 1, opts...)
}

// Start генерирует первый уровень из levels и ставит на вход героя из
// прототипа HeroPrototype.
func Start(cfg Config, levels LevelSource, protos systems.Prototypes) (*Simulation, error) {
	rng := utils.NewRand(cfg.Seed)
	world, start, err := levels.Generate(1, rng)
	if err != nil {
		return nil, eris.Wrap(err, "generate level 1")
	}
	hero, ok := protos.Build(HeroPrototype)
	if !ok {
		return nil, eris.Errorf("prototype %q is not defined", HeroPrototype)
	}
	if _, err := world.SpawnPrimary(hero, start); err != nil {
		return nil, eris.Wrap(err, "place hero")
	}
	return newSimulation(cfg, rng, world, 1, WithLevels(levels), WithPrototypes(protos)), nil
}

func newSimulation(cfg Config, rng *rand.Rand, world *domain.World, level int, opts ...Option) *Simulation {
	s := &Simulation{
		Events:   events.NewDispatcher(),
		Rng:      rng,
		Level:    level,
		Seed:     cfg.Seed,
		handlers: make(handlers.Table),
		player:   &PlayerController{},
		log:      logger.Component("simulation"),
		Replay: &domain.ReplaySession{
			LevelID:   level,
			Seed:      cfg.Seed,
			Timestamp: time.Now().Unix(),
			Actions:   make([]domain.ReplayAction, 0),
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	actions.Register(s.handlers)
	s.phase = s.newPhaseMachine()
	s.journal = &journal{sim: s}

	s.sys = &systems.Context{
		Events:     s.Events,
		Rng:        s.Rng,
		Prototypes: s.prototypes,
		Log:        s.log,
	}
	s.attach(world)

	// Поля первыми: слушатели ниже видят уже пересобранную карту
	s.Events.RegisterListener(events.ListenerFunc(func(ev domain.GameEvent) {
		s.Fields.ProcessGameEvent(ev)
	}))
	s.Events.RegisterListener(events.ListenerFunc(s.watchDeath))
	s.Events.RegisterListener(events.ListenerFunc(s.watchExit))
	s.Events.RegisterListener(s.journal)
	return s
}

func (s *Simulation) newPhaseMachine() *fsm.FSM {
	return fsm.NewFSM(
		PhaseIdle,
		fsm.Events{
			{Name: "act", Src: []string{PhaseIdle}, Dst: PhaseActing},
			{Name: "drain", Src: []string{PhaseActing}, Dst: PhaseDraining},
			{Name: "settle", Src: []string{PhaseDraining}, Dst: PhaseIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.log.WithFields(logrus.Fields{
					"turn": s.Turn,
					"from": e.Src,
					"to":   e.Dst,
				}).Trace("turn phase")
			},
		},
	)
}

// attach делает world текущим миром и заводит для него свежие поля.
func (s *Simulation) attach(world *domain.World) {
	s.World = world
	s.Fields = navigation.NewSet(
		navigation.NewDistanceField(FieldPC, world, s.isPrimary),
		navigation.NewDistanceField(FieldUpgrader, world, isUpgrader),
	)
	s.sys.World = world
	s.sys.Fields = s.Fields
}

func (s *Simulation) isPrimary(e *domain.Entity) bool {
	return e.ID == s.World.PrimaryID()
}

func isUpgrader(e *domain.Entity) bool {
	return e.Upgrader != nil
}

// Phase - текущая фаза хода.
func (s *Simulation) Phase() string {
	return s.phase.Current()
}

// Context - контекст систем текущего мира (для ботов и отладки).
func (s *Simulation) Context() *systems.Context {
	return s.sys
}

// TurnMessages - сообщения лога, появившиеся за последний ход.
func (s *Simulation) TurnMessages() []string {
	return s.journal.last
}

// ProcessTurn - один ход симуляции по команде главного актёра.
//
// 1. Главный актёр выполняет команду.
// 2. Если она не удалась, остальные не ходят.
// 3. Иначе поля пересобираются сразу, затем ходят остальные актёры и постройки
// в порядке регистрации.
// 4. Очередь событий разбирается до конца в любом случае.
//
// Возвращает true, если главный актёр что-то сделал. Ошибка разбора payload
// тоже даёт пустой ход (очередь всё равно разбирается).
func (s *Simulation) ProcessTurn(cmd domain.Command) (bool, error) {
	if !cmd.Type.Valid() {
		return false, eris.Wrapf(domain.ErrInvalidCommand, "type %d", cmd.Type)
	}
	if s.Over {
		return false, ErrGameOver
	}
	primary := s.World.Primary()
	if !primary.Alive() {
		return false, ErrNoPrimary
	}

	ctx := context.Background()
	if err := s.phase.Event(ctx, "act"); err != nil {
		return false, eris.Wrap(ErrTurnInProgress, err.Error())
	}

	s.Turn++
	s.Replay.Actions = append(s.Replay.Actions, domain.ReplayAction{
		Turn:    s.Turn,
		Command: cmd.Type,
		Payload: cmd.Payload,
	})
	turnLog := s.log.WithFields(logrus.Fields{"turn": s.Turn, "command": cmd.Type.String()})

	// 1. Главный актёр
	s.player.AcceptCommand(cmd)
	acted, cmdErr := s.act(primary, s.player)
	if cmdErr != nil {
		turnLog.WithError(cmdErr).Debug("primary command rejected")
	}

	// 2-3. Остальные ходят только после удачного хода главного
	if acted {
		refreshed := s.Fields.Refresh(s.Events.Pending())
		turnLog.WithField("fields", refreshed).Trace("fields refreshed")
		s.runOthers(primary)
	}

	// 4. Разбор очереди
	_ = s.phase.Event(ctx, "drain")
	delivered := s.Events.PassAllEvents()
	reaped := s.World.Reap()
	_ = s.phase.Event(ctx, "settle")

	turnLog.WithFields(logrus.Fields{
		"acted":  acted,
		"events": delivered,
		"reaped": reaped,
	}).Debug("turn processed")

	if s.exitTo != nil && !s.Over {
		dest := *s.exitTo
		s.exitTo = nil
		if err := s.SwitchLevel(dest); err != nil {
			return acted, eris.Wrapf(err, "switch to level %d", dest)
		}
	}
	return acted, cmdErr
}

// runOthers - по одному действию каждому живому актёру (кроме главного),
// затем каждой постройке.
func (s *Simulation) runOthers(primary *domain.Entity) {
	for _, e := range s.World.Actors() {
		if e == primary || !e.Alive() || e.Brain == nil {
			continue
		}
		if _, err := s.act(e, s.ai); err != nil {
			s.log.WithError(err).WithField("actor", e.Name()).Warn("ai command rejected")
		}
	}
	for _, c := range s.World.Constructions() {
		if !c.Alive() {
			continue
		}
		if c.Brain != nil && c.Brain.Kind != enums.BrainNone {
			if _, err := s.act(c, s.ai); err != nil {
				s.log.WithError(err).WithField("construction", c.Name()).Warn("ai command rejected")
			}
			continue
		}
		systems.RunConstruction(s.sys, c)
	}
}

// act - ход одной сущности через её контроллер.
func (s *Simulation) act(e *domain.Entity, c Controller) (bool, error) {
	if e.Breath != nil {
		e.Breath.Tick()
	}
	cmd, ok := c.ChooseCommand(s.sys, e)
	if !ok {
		return false, nil
	}
	handler, ok := s.handlers[cmd.Type]
	if !ok {
		return false, eris.Wrapf(domain.ErrInvalidCommand, "no handler for %s", cmd.Type)
	}
	return handler(handlers.Context{Context: s.sys, Actor: e}, cmd.Payload)
}

// SwitchLevel строит уровень n и переносит туда главного актёра вместе с
// инвентарём. Очередь событий очищается: события старого мира новым
// слушателям не нужны.
func (s *Simulation) SwitchLevel(n int) error {
	if s.levels == nil {
		return ErrNoLevels
	}
	hero := s.World.Primary()
	if hero == nil {
		return ErrNoPrimary
	}

	world, start, err := s.levels.Generate(n, s.Rng)
	if err != nil {
		return eris.Wrapf(err, "generate level %d", n)
	}
	carried := s.carry(hero, world)
	if _, err := world.SpawnPrimary(carried, start); err != nil {
		return eris.Wrap(err, "place primary on new level")
	}

	s.Events.Clear()
	s.exitTo = nil
	s.attach(world)
	s.Level = n

	s.log.WithFields(logrus.Fields{"level": n, "start": start}).Info("level switched")
	return nil
}

// carry копирует сущность и её инвентарь в арену другого мира.
func (s *Simulation) carry(e *domain.Entity, dst *domain.World) *domain.Entity {
	c := e.Clone()
	if e.Inventory == nil {
		return c
	}
	for _, id := range e.Inventory.Items {
		item, err := s.World.Store.Lookup(id)
		if err != nil {
			s.log.WithError(err).Warn("stale item skipped on level switch")
			continue
		}
		moved := item.Clone()
		dst.Adopt(moved)
		if err := c.Inventory.Append(moved.ID); err != nil {
			s.log.WithError(err).Warn("item lost on level switch")
		}
	}
	return c
}
