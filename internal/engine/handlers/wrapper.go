package handlers

import (
	"encoding/json"

	"camp-engine/pkg/api"
)

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (bool, error)

// EmptyHandlerFunc - хендлер, которому НЕ нужны данные (wait, grab)
type EmptyHandlerFunc func(ctx Context) (bool, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Распаковку и валидацию берёт на себя api.DecodePayload.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (bool, error) {
		payload, err := api.DecodePayload[T](raw)
		if err != nil {
			return false, err
		}
		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (bool, error) {
		return handler(ctx)
	}
}
