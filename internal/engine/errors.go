package engine

import (
	"errors"
	"fmt"
)

// ErrNoLegalMoves is returned by Think when the game is already
// over in the current position.
var ErrNoLegalMoves = errors.New("no legal moves in position")

// IllegalMoveError reports a move that does not apply to the
// position it was given with.
type IllegalMoveError struct {
	Move string
	FEN  string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s in position %s", e.Move, e.FEN)
}

// ConfigError reports an unusable engine configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}
