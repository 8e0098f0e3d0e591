package engine

import (
	"sync"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
	"camp-engine/internal/infrastructure/storage"
	"camp-engine/internal/network"
	"camp-engine/pkg/api"
	"camp-engine/pkg/logger"
)

// GameService - потокобезопасная обёртка над симуляцией для внешних
// клиентов. Ходы выполняются строго по одному; результат хода рассылается
// всем подписчикам Hub.
type GameService struct {
	mu  sync.Mutex
	sim *Simulation

	Hub     *network.Broadcaster
	batcher *network.Batcher
	replays *storage.ReplayService

	log *logrus.Entry
}

// NewService подключает к симуляции пачкователь событий. replays может быть nil.
func NewService(sim *Simulation, replays *storage.ReplayService) *GameService {
	s := &GameService{
		sim:     sim,
		Hub:     network.NewBroadcaster(),
		batcher: network.NewBatcher(nil),
		replays: replays,
		log:     logger.Component("service"),
	}
	sim.Events.RegisterListener(s.batcher)
	return s
}

// ProcessCommand принимает команду от внешнего мира (WebSocket, бот) и
// выполняет ход. Неизвестная команда - ошибка, ход не начинается.
func (s *GameService) ProcessCommand(session string, in api.ClientCommand) (api.ServerMessage, error) {
	cmd, err := domain.ParseCommand(in.Action, []byte(in.Payload))
	if err != nil {
		return api.ServerMessage{Type: api.MessageError, Session: session, Error: err.Error()}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acted, err := s.sim.ProcessTurn(cmd)
	if err != nil && (eris.Is(err, ErrGameOver) || eris.Is(err, ErrNoPrimary)) {
		return s.stateLocked(api.MessageOver), err
	}

	msgType := api.MessageTurn
	if s.sim.Over {
		msgType = api.MessageOver
		s.saveReplayLocked()
	}
	msg := BuildState(s.sim, msgType)
	msg.Acted = acted
	msg.Events = s.batcher.Take()
	msg.Logs = s.sim.TurnMessages()
	if err != nil {
		msg.Error = err.Error()
	}

	s.log.WithFields(logrus.Fields{
		"session": session,
		"action":  cmd.Type.String(),
		"turn":    s.sim.Turn,
		"acted":   acted,
		"events":  len(msg.Events),
	}).Debug("command processed")

	s.Hub.Broadcast(msg)
	msg.Session = session
	return msg, err
}

// State - полный снимок для только что подключившегося клиента.
func (s *GameService) State(msgType string) api.ServerMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(msgType)
}

func (s *GameService) stateLocked(msgType string) api.ServerMessage {
	return BuildState(s.sim, msgType)
}

// Fields - копия значений полей расстояний по строкам (отладка).
func (s *GameService) Fields() map[string][][]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][][]int)
	for _, name := range s.sim.Fields.Names() {
		f, _ := s.sim.Fields.Get(name)
		rows := make([][]int, f.Height())
		for y := range rows {
			rows[y] = make([]int, f.Width())
			for x := range rows[y] {
				rows[y][x] = f.Raw(domain.Position{X: x, Y: y})
			}
		}
		out[name] = rows
	}
	return out
}

// Snapshot - снимок мира для отладки и сохранения.
func (s *GameService) Snapshot() *storage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.Capture(s.sim.World)
}

// Do выполняет fn под замком сервиса (бот читает мир между ходами).
func (s *GameService) Do(fn func(sim *Simulation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.sim)
}

// SaveReplay записывает партию, если задан каталог записей.
func (s *GameService) SaveReplay() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveReplayLocked()
}

func (s *GameService) saveReplayLocked() (string, error) {
	if s.replays == nil {
		return "", nil
	}
	path, err := s.replays.Save(s.sim.Replay)
	if err != nil {
		s.log.WithError(err).Error("failed to save replay")
		return "", err
	}
	s.log.WithField("path", path).Info("replay saved")
	return path, nil
}
