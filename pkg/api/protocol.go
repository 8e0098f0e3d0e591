package api

import (
	"github.com/goccy/go-json"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - одна команда главному актёру.
type ClientCommand struct {
	// Action - имя команды: walk, wait, grab, drop_item, use_item, jump, shoot.
	Action string `json:"action"`

	// Payload - параметры; структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера.
const (
	MessageInit  = "INIT"
	MessageTurn  = "TURN"
	MessageError = "ERROR"
	MessageOver  = "GAME_OVER"
)

// ServerMessage - ответ на ход: пачка событий хода и снимок видимого состояния.
type ServerMessage struct {
	Type string `json:"type"`

	// Session - идентификатор подключения.
	Session string `json:"session,omitempty"`

	// Turn - номер завершённого хода.
	Turn int `json:"turn"`

	// Acted - главный актёр действительно что-то сделал.
	Acted bool `json:"acted"`

	Grid     *GridMeta    `json:"grid,omitempty"`
	Events   []EventView  `json:"events,omitempty"`
	Entities []EntityView `json:"entities,omitempty"`
	Logs     []string     `json:"logs,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// EventView - событие симуляции для клиента (анимации, звуки).
type EventView struct {
	Type  string `json:"type"`
	Actor string `json:"actor,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// EntityView - сущность на сетке.
type EntityView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Layer string `json:"layer"`
	X     int    `json:"x"`
	Y     int    `json:"y"`

	Symbol string `json:"symbol"`
	Color  string `json:"color"`

	Stats     *StatsView `json:"stats,omitempty"`
	Inventory []string   `json:"inventory,omitempty"`
}

// StatsView - показатели бойца.
type StatsView struct {
	HP      int `json:"hp"`
	MaxHP   int `json:"maxHp"`
	Ammo    int `json:"ammo,omitempty"`
	MaxAmmo int `json:"maxAmmo,omitempty"`
	Breath  int `json:"breath,omitempty"`
}
