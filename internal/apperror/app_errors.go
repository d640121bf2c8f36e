package apperror

import "errors"

// Guard rejections. A transition whose guard fails is discarded before any
// store write; these sentinels never surface to the user.
var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameAlreadyBegun = errors.New("game has already started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrAlreadyJoined    = errors.New("participant is already bound to a slot")
	ErrRoomFull         = errors.New("room already has two participants")
	ErrNotBoundToColor  = errors.New("participant is not bound to that color")
	ErrNotBlack         = errors.New("only the black participant may do that")
	ErrPlayersNotReady  = errors.New("both participants must be ready")
	ErrInvalidCell      = errors.New("cell coordinate is out of range")
)

var ErrRoomNotFound = errors.New("room not found")
