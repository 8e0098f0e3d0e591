package server

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
	"camp-engine/internal/engine"
	"camp-engine/pkg/api"
	"camp-engine/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService. Каждое подключение
// получает свою сессию; результаты ходов приходят ему через Hub сервиса.
type Client struct {
	Service *engine.GameService
	Conn    *websocket.Conn
	Session string
	Send    chan api.ServerMessage

	log *logrus.Entry
}

// NewClient регистрирует сессию в хабе и кладёт в неё первый снимок (INIT).
func NewClient(service *engine.GameService, conn *websocket.Conn) *Client {
	session := uuid.NewString()
	c := &Client{
		Service: service,
		Conn:    conn,
		Session: session,
		Send:    service.Hub.Register(session),
		log:     logger.Component("client").WithField("session", session),
	}

	first := service.State(api.MessageInit)
	first.Session = session
	service.Hub.SendTo(session, first)
	return c
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Service.Hub.Unregister(c.Session)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("websocket read failed")
			}
			return
		}

		var cmd api.ClientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.reply(api.ServerMessage{Type: api.MessageError, Error: eris.Wrap(err, "decode command").Error()})
			continue
		}
		c.handle(cmd)
	}
}

// handle выполняет ход. Успешный ход (и ход с ошибкой payload) уже разослан
// хабом всем сессиям; отказы до начала хода получает только автор.
func (c *Client) handle(cmd api.ClientCommand) {
	msg, err := c.Service.ProcessCommand(c.Session, cmd)
	if err == nil {
		return
	}
	if eris.Is(err, domain.ErrInvalidCommand) ||
		eris.Is(err, engine.ErrGameOver) ||
		eris.Is(err, engine.ErrNoPrimary) ||
		eris.Is(err, engine.ErrTurnInProgress) {
		if msg.Error == "" {
			msg.Error = err.Error()
		}
		c.reply(msg)
		return
	}
	c.log.WithError(err).WithField("action", cmd.Action).Debug("turn finished with error")
}

func (c *Client) reply(msg api.ServerMessage) {
	msg.Session = c.Session
	if !c.Service.Hub.SendTo(c.Session, msg) {
		c.log.WithField("type", msg.Type).Warn("reply dropped")
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			bz, err := json.Marshal(message)
			if err != nil {
				c.log.WithError(err).Error("failed to encode server message")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, bz); err != nil {
				c.log.WithError(err).Debug("write message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
