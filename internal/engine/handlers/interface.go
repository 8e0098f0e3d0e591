package handlers

import (
	"encoding/json"

	"camp-engine/internal/domain"
	"camp-engine/internal/systems"
)

// Context передает хендлеру состояние мира и того, кто действует.
// Хендлер мутирует мир напрямую через системы.
type Context struct {
	*systems.Context
	Actor *domain.Entity // Тот, кто выполняет команду (игрок, NPC или постройка)
}

// HandlerFunc - это контракт для любой команды (walk, shoot, ...).
// Возвращает true, если ход действительно потрачен.
type HandlerFunc func(ctx Context, payload json.RawMessage) (bool, error)

// Table - хендлеры по типу команды.
type Table map[domain.CommandType]HandlerFunc
