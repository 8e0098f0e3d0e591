package api

// --- Payloads ---

// DirectionPayload используется для walk: шаг на соседнюю клетку.
type DirectionPayload struct {
	Dx int `json:"dx"` // Смещение по X (-1, 0, 1)
	Dy int `json:"dy"` // Смещение по Y (-1, 0, 1)
}

// PositionPayload - абсолютная клетка-цель (jump, shoot).
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ItemPayload - предмет по индексу в инвентаре (use_item, drop_item).
// Target нужен эффектам, бьющим по клетке (мина, взрывчатка).
type ItemPayload struct {
	Index  int              `json:"index"`
	Target *PositionPayload `json:"target,omitempty"`
}
