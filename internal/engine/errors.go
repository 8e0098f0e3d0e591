package engine

import "github.com/rotisserie/eris"

var (
	ErrTurnInProgress = eris.New("turn is already in progress")
	ErrGameOver       = eris.New("game is over")
	ErrNoPrimary      = eris.New("world has no primary actor")
	ErrNoLevels       = eris.New("no level source configured")
)
