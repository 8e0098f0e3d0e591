package api

import "github.com/rotisserie/eris"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return eris.New("movement vector cannot be zero")
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return eris.New("movement step too large")
	}
	return nil
}

func (p PositionPayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return eris.Errorf("target (%d,%d) has negative coordinates", p.X, p.Y)
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if p.Index < 0 {
		return eris.Errorf("item index %d is negative", p.Index)
	}
	if p.Target != nil {
		return p.Target.Validate()
	}
	return nil
}
