package domain

import (
	"strings"

	"github.com/rotisserie/eris"

	"camp-engine/internal/core/types"
)

// EventType - закрытый перечень событий симуляции. Новый тип добавляется
// только здесь, вызывающий код не может выдумать свой.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventMoved
	EventWasDestroyed
	EventAttacked
	EventLogUpdated
	EventPickedUp
	EventDropped
	EventActorSpawned
	EventConstructionSpawned
	EventExploded
	EventShot
	EventHPChanged
	EventAmmoChanged
	EventInventoryUpdated
	EventJumped
	// EventQueueExhausted - терминальный маркер пачки событий одного хода.
	EventQueueExhausted
)

var eventCmdToString = map[EventType]string{
	EventMoved:               "moved",
	EventWasDestroyed:        "was_destroyed",
	EventAttacked:            "attacked",
	EventLogUpdated:          "log_updated",
	EventPickedUp:            "picked_up",
	EventDropped:             "dropped",
	EventActorSpawned:        "actor_spawned",
	EventConstructionSpawned: "construction_spawned",
	EventExploded:            "exploded",
	EventShot:                "shot",
	EventHPChanged:           "hp_changed",
	EventAmmoChanged:         "ammo_changed",
	EventInventoryUpdated:    "inventory_updated",
	EventJumped:              "jumped",
	EventQueueExhausted:      "queue_exhausted",
}

var eventStringToCmd = func() map[string]EventType {
	m := make(map[string]EventType, len(eventCmdToString))
	for k, v := range eventCmdToString {
		m[v] = k
	}
	return m
}()

// ParseEvent конвертирует строку в EventType (нечувствительно к регистру).
func ParseEvent(s string) EventType {
	if val, ok := eventStringToCmd[strings.ToLower(s)]; ok {
		return val
	}
	return EventUnknown
}

func (t EventType) String() string {
	if val, ok := eventCmdToString[t]; ok {
		return val
	}
	return "unknown"
}

func (t EventType) Valid() bool {
	_, ok := eventCmdToString[t]
	return ok
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(b []byte) error {
	v := ParseEvent(string(b))
	if v == EventUnknown {
		return eris.Wrapf(ErrInvalidEvent, "%q", string(b))
	}
	*t = v
	return nil
}

// GameEvent - неизменяемая запись о том, что произошло.
type GameEvent struct {
	Type        EventType      `json:"type"`
	Actor       types.EntityID `json:"actor,omitempty"`
	Location    Position       `json:"location"`
	HasLocation bool           `json:"hasLocation"`
}

// NewGameEvent создаёт событие. Место берётся из позиции actor в момент
// вызова, а не при обработке.
func NewGameEvent(t EventType, actor *Entity) (GameEvent, error) {
	if !t.Valid() {
		return GameEvent{}, eris.Wrapf(ErrInvalidEvent, "type %d", t)
	}
	ev := GameEvent{Type: t}
	if actor != nil {
		ev.Actor = actor.ID
		ev.Location = actor.Pos
		ev.HasLocation = true
	}
	return ev, nil
}

// NewGameEventAt - событие с явно заданным местом.
func NewGameEventAt(t EventType, actor *Entity, loc Position) (GameEvent, error) {
	ev, err := NewGameEvent(t, actor)
	if err != nil {
		return ev, err
	}
	ev.Location = loc
	ev.HasLocation = true
	return ev, nil
}

// Validate повторно проверяет тип (для событий, собранных литералом).
func (ev GameEvent) Validate() error {
	if !ev.Type.Valid() {
		return eris.Wrapf(ErrInvalidEvent, "type %d", ev.Type)
	}
	return nil
}
