package domain

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// CommandType - Внутренний числовой идентификатор команды
type CommandType uint8

const (
	CommandUnknown CommandType = iota
	CommandWalk
	CommandWait
	CommandGrab
	CommandDropItem
	CommandUseItem
	CommandJump
	CommandShoot
)

// Маппинг для конвертации JSON -> Domain
var commandStringToCmd = map[string]CommandType{
	"WALK":      CommandWalk,
	"WAIT":      CommandWait,
	"GRAB":      CommandGrab,
	"DROP_ITEM": CommandDropItem,
	"USE_ITEM":  CommandUseItem,
	"JUMP":      CommandJump,
	"SHOOT":     CommandShoot,
}

// Маппинг для логов Domain -> String
var commandCmdToString = map[CommandType]string{
	CommandWalk:     "walk",
	CommandWait:     "wait",
	CommandGrab:     "grab",
	CommandDropItem: "drop_item",
	CommandUseItem:  "use_item",
	CommandJump:     "jump",
	CommandShoot:    "shoot",
}

// ParseCommandType конвертирует строку из JSON в CommandType.
func ParseCommandType(s string) CommandType {
	if val, ok := commandStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return CommandUnknown
}

func (c CommandType) String() string {
	if val, ok := commandCmdToString[c]; ok {
		return val
	}
	return "unknown"
}

func (c CommandType) Valid() bool {
	_, ok := commandCmdToString[c]
	return ok
}

// Command - проверенная команда и её параметры (payload разбирает обработчик).
type Command struct {
	Type    CommandType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewCommand - единственный способ получить Command; тип вне перечня - ошибка.
func NewCommand(t CommandType, payload json.RawMessage) (Command, error) {
	if !t.Valid() {
		return Command{}, eris.Wrapf(ErrInvalidCommand, "type %d", t)
	}
	return Command{Type: t, Payload: payload}, nil
}

// ParseCommand - NewCommand по строковому имени типа.
func ParseCommand(name string, payload json.RawMessage) (Command, error) {
	t := ParseCommandType(name)
	if t == CommandUnknown {
		return Command{}, eris.Wrapf(ErrInvalidCommand, "%q", name)
	}
	return NewCommand(t, payload)
}
