package mines

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoomForMines    = errors.New("not enough cells outside the safe area to place mines")
	ErrGameOver          = errors.New("game is over")
	ErrAwaitingFirstMove = errors.New("no cell has been opened yet")
)

// ConfigError reports game parameters that cannot produce a board.
type ConfigError struct {
	Params GameParams
	Reason string
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid game params %s: %s", e.Params, e.Reason)
}
