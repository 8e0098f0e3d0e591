package api

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Decode разбирает JSON в значение T.
func Decode[T any](bz []byte) (T, error) {
	v := new(T)
	if err := json.Unmarshal(bz, v); err != nil {
		return *v, eris.Wrap(err, "decode")
	}
	return *v, nil
}

// Encode сериализует значение в JSON.
func Encode(v any) ([]byte, error) {
	bz, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "encode")
	}
	return bz, nil
}

// DecodePayload разбирает payload команды и, если тип умеет, валидирует его.
// Пустой payload даёт нулевое значение T (валидация всё равно вызывается).
func DecodePayload[T any](raw []byte) (T, error) {
	var payload T
	if len(raw) > 0 {
		var err error
		if payload, err = Decode[T](raw); err != nil {
			return payload, eris.Wrap(err, "invalid payload format")
		}
	}
	if v, ok := any(payload).(Validator); ok {
		if err := v.Validate(); err != nil {
			return payload, eris.Wrap(err, "validation failed")
		}
	}
	return payload, nil
}
