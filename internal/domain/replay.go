package domain

import "encoding/json"

// ReplayAction - одна команда главного актёра, поданная в ход Turn.
type ReplayAction struct {
	Turn    int             `json:"turn"`
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload"`
}

// ReplaySession - полная запись партии: seed + команды восстанавливают её целиком.
type ReplaySession struct {
	LevelID   int            `json:"levelId"`
	Seed      int64          `json:"seed"`
	Timestamp int64          `json:"timestamp"`
	Actions   []ReplayAction `json:"actions"`
}
