package agent

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/internal/engine"
	"camp-engine/internal/navigation"
	"camp-engine/internal/systems"
	"camp-engine/pkg/api"
	"camp-engine/pkg/logger"
)

// FieldExit - поле расстояний до выходов вглубь, которое бот добавляет в
// симуляцию для себя.
const FieldExit = "exit"

// Bot представляет собой "Игрока-компьютера" (автопилот главного актёра).
// Он подключается к сервису так же, как обычный клиент: регистрируется в
// хабе, получает рассылку после каждого хода и отвечает командой.
//
// Жизненный цикл:
//  1. NewBot -> Регистрация в хабе сервиса, получение личного канала (Inbox).
//  2. Run -> Первый ход, затем слушает свой Inbox.
//  3. На каждое сообщение TURN вызывается Step, пока не кончится лимит ходов
//     или игра.
//  4. Step -> Та же AI-политика, что у монстров, но с полем выходов: бот
//     лечится, бьёт соседей, стреляет и идёт к лестнице вниз.
type Bot struct {
	Session  string
	Service  *engine.GameService
	Inbox    chan api.ServerMessage
	MaxTurns int
	// Pace - пауза перед каждым ходом (чтобы за ботом можно было следить).
	Pace time.Duration

	brain *domain.Brain
	log   *logrus.Entry
}

func NewBot(session string, service *engine.GameService, maxTurns int) *Bot {
	b := &Bot{
		Session:  session,
		Service:  service,
		Inbox:    service.Hub.Register(session),
		MaxTurns: maxTurns,
		brain: &domain.Brain{
			Kind:            enums.BrainMelee,
			Weights:         map[string]int{FieldExit: 1},
			Range:           4,
			ExcludeAdjacent: true,
		},
		log: logger.Component("bot").WithField("session", session),
	}
	b.log.Info("autopilot created")
	return b
}

// Run ходит, пока не наберётся MaxTurns, не кончится игра или не отменят ctx.
func (b *Bot) Run(ctx context.Context) error {
	defer b.Service.Hub.Unregister(b.Session)

	msg, err := b.Step()
	for {
		if done, stepErr := b.finished(msg, err); done {
			b.log.WithField("turn", msg.Turn).Info("autopilot stopped")
			return stepErr
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-b.Inbox:
			if !ok {
				return nil
			}
			// Бот реагирует только на завершённые ходы
			if update.Type != api.MessageTurn {
				msg, err = update, nil
				continue
			}
			if err := b.wait(ctx); err != nil {
				return err
			}
			msg, err = b.Step()
		}
	}
}

func (b *Bot) wait(ctx context.Context) error {
	if b.Pace <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.Pace):
		return nil
	}
}

func (b *Bot) finished(msg api.ServerMessage, err error) (bool, error) {
	switch {
	case eris.Is(err, engine.ErrGameOver), msg.Type == api.MessageOver:
		return true, nil
	case err != nil && msg.Type == api.MessageError:
		return true, err
	case b.MaxTurns > 0 && msg.Turn >= b.MaxTurns:
		return true, nil
	}
	return false, nil
}

// Step выбирает команду и отправляет её в сервис как обычный клиент.
func (b *Bot) Step() (api.ServerMessage, error) {
	var cmd domain.Command
	b.Service.Do(func(sim *engine.Simulation) {
		cmd = b.Decide(sim)
	})

	msg, err := b.Service.ProcessCommand(b.Session, api.ClientCommand{
		Action:  cmd.Type.String(),
		Payload: cmd.Payload,
	})
	if err != nil && !eris.Is(err, engine.ErrGameOver) {
		b.log.WithError(err).WithField("action", cmd.Type.String()).Debug("command rejected")
	}
	return msg, err
}

// Decide - команда для главного актёра текущего мира. Вызывать между ходами.
func (b *Bot) Decide(sim *engine.Simulation) domain.Command {
	hero := sim.World.Primary()
	if !hero.Alive() {
		return api.Wait()
	}
	b.ensureExitField(sim)

	// Решает копия героя со своим Brain: сам герой остаётся без AI
	proxy := *hero
	proxy.Brain = b.brain
	return systems.Decide(sim.Context(), &proxy)
}

// ensureExitField заводит поле выходов в наборе полей текущего мира
// (после смены уровня набор новый).
func (b *Bot) ensureExitField(sim *engine.Simulation) {
	if _, ok := sim.Fields.Get(FieldExit); ok {
		return
	}
	level := sim.Level
	sim.Fields.Add(navigation.NewDistanceField(FieldExit, sim.World, func(e *domain.Entity) bool {
		return e.Exit != nil && e.Exit.Destination > level
	}))
	b.log.WithField("level", level).Debug("exit field attached")
}
