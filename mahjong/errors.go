package mahjong

import "errors"

// Sentinel errors grouped by concern.
var (
	ErrBadConfiguration = errors.New("mahjong: invalid configuration")
	ErrSeatOutOfRange   = errors.New("mahjong: seat index out of range")
	ErrStateViolation   = errors.New("mahjong: game state invariant violated")
)

var (
	ErrInvalidAction  = errors.New("mahjong: action not legal for the current player")
	ErrNotPlayersTurn = errors.New("mahjong: action submitted out of turn")
	ErrTileNotInHand  = errors.New("mahjong: tile is not in the player's hand")
	ErrNoDiscardTile  = errors.New("mahjong: no discard tile is pending reaction")
)

var (
	ErrWallEmpty       = errors.New("mahjong: wall has no tiles left to draw")
	ErrGameAlreadyDone = errors.New("mahjong: game has already reached a terminal state")
	ErrNotAwaitingMeld = errors.New("mahjong: engine is not awaiting a meld decision")
)
