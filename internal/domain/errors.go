package domain

import "github.com/rotisserie/eris"

var (
	ErrOutOfBounds    = eris.New("location is out of grid bounds")
	ErrOccupied       = eris.New("layer cell is already occupied")
	ErrNotOnGrid      = eris.New("entity is not on grid")
	ErrStaleEntity    = eris.New("stale or unknown entity id")
	ErrInventoryFull  = eris.New("inventory is full")
	ErrInvalidCommand = eris.New("invalid command type")
	ErrInvalidEvent   = eris.New("invalid game event type")
)
