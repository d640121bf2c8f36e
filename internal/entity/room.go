package entity

import (
	"fmt"
	"time"

	"github.com/coldpeak/gomoku-rooms/internal/apperror"
)

const BoardSize = 10

type Mark string

const (
	Black     Mark = "B"
	White     Mark = "W"
	EmptyCell Mark = ""
)

type Color string

const (
	ColorBlack Color = "black"
	ColorWhite Color = "white"
)

// Dotted field paths used by merge writes. Every transition names exactly
// the fields it touches, nothing more.
const (
	FieldCurrentTurn    = "currentTurn"
	FieldWinner         = "winner"
	FieldGameStarted    = "gameStarted"
	FieldPlayersBlack   = "players.black"
	FieldPlayersWhite   = "players.white"
	FieldPlayersCurrent = "players.current"
	FieldReadyBlack     = "ready.black"
	FieldReadyWhite     = "ready.white"
)

// BoardField - field path of a single board cell.
func BoardField(row, col int) string {
	return fmt.Sprintf("board.%d,%d", row, col)
}

// Fields is the partial write set a transition produces: dotted field path
// to new value. Values are Mark, Color-bound ids (string) or bool.
type Fields map[string]any

type Board [BoardSize][BoardSize]Mark

type Players struct {
	Black   string `json:"black"`
	White   string `json:"white"`
	Current string `json:"current"`
}

type Ready struct {
	Black bool `json:"black"`
	White bool `json:"white"`
}

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Room is the single shared document representing one game's full state.
// It is mutated exclusively through the guarded transitions below plus the
// lobby's initial Create.
type Room struct {
	ID          string    `json:"id"`
	Code        string    `json:"roomCode"`
	Board       Board     `json:"board"`
	CurrentTurn Mark      `json:"currentTurn"`
	Players     Players   `json:"players"`
	Ready       Ready     `json:"ready"`
	GameStarted bool      `json:"gameStarted"`
	Winner      Mark      `json:"winner"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRoom - creates an empty room. All 100 cells exist from creation and
// Black opens.
func NewRoom(id, code string, createdAt time.Time) *Room {
	return &Room{
		ID:          id,
		Code:        code,
		CurrentTurn: Black,
		CreatedAt:   createdAt,
	}
}

func (that Mark) Opponent() Mark {
	if that == Black {
		return White
	}
	return Black
}

func (that Mark) Color() Color {
	if that == Black {
		return ColorBlack
	}
	return ColorWhite
}

func (that Color) Mark() Mark {
	if that == ColorBlack {
		return Black
	}
	return White
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that *Room) IsLobby() bool {
	return !that.GameStarted && that.Winner == EmptyCell
}

func (that *Room) IsPlaying() bool {
	return that.GameStarted && that.Winner == EmptyCell
}

func (that *Room) IsFinished() bool {
	return that.Winner != EmptyCell
}

// ColorOf - the color slot currently holding the participant's id, if any.
func (that *Room) ColorOf(participantID string) (Color, bool) {
	switch participantID {
	case "":
		return "", false
	case that.Players.Black:
		return ColorBlack, true
	case that.Players.White:
		return ColorWhite, true
	}
	return "", false
}

// ParticipantFor - the id bound to a color slot, empty if unbound.
func (that *Room) ParticipantFor(color Color) string {
	if color == ColorBlack {
		return that.Players.Black
	}
	return that.Players.White
}

// TurnOwner - the participant id allowed to submit the next move.
func (that *Room) TurnOwner() string {
	return that.ParticipantFor(that.CurrentTurn.Color())
}

// Join - binds the participant to the first unbound slot in order
// {black, white}. The first join also seats the joiner as the current
// player; the second seats black, since Black always opens.
func (that *Room) Join(participantID string) (Fields, error) {
	if _, bound := that.ColorOf(participantID); bound {
		return nil, apperror.ErrAlreadyJoined
	}

	if that.Players.Black == "" {
		return Fields{
			FieldPlayersBlack:   participantID,
			FieldPlayersCurrent: participantID,
		}, nil
	}

	if that.Players.White == "" {
		return Fields{
			FieldPlayersWhite:   participantID,
			FieldPlayersCurrent: that.Players.Black,
		}, nil
	}

	return nil, apperror.ErrRoomFull
}

// SetReady - latches the readiness flag of the participant's own color.
func (that *Room) SetReady(participantID string, color Color, value bool) (Fields, error) {
	if that.ParticipantFor(color) != participantID {
		return nil, apperror.ErrNotBoundToColor
	}

	field := FieldReadyBlack
	if color == ColorWhite {
		field = FieldReadyWhite
	}

	return Fields{field: value}, nil
}

// Start - begins the game. Only Black may start, both sides must be ready.
func (that *Room) Start(participantID string) (Fields, error) {
	if that.Players.Black == "" || that.Players.Black != participantID {
		return nil, apperror.ErrNotBlack
	}

	if that.GameStarted {
		return nil, apperror.ErrGameAlreadyBegun
	}

	if !that.Ready.Black || !that.Ready.White {
		return nil, apperror.ErrPlayersNotReady
	}

	return Fields{
		FieldGameStarted:    true,
		FieldPlayersCurrent: that.Players.Black,
	}, nil
}

// Move - places the current turn's mark at (row, col) and hands the turn
// to the opponent. The guard is re-checked against the freshest snapshot
// by the caller immediately before writing; a stale out-of-turn request
// fails here and is never submitted.
func (that *Room) Move(participantID string, row, col int) (Fields, error) {
	if !InBounds(row, col) {
		return nil, apperror.ErrInvalidCell
	}

	if !that.GameStarted {
		return nil, apperror.ErrGameIsNotStarted
	}

	if that.Winner != EmptyCell {
		return nil, apperror.ErrGameFinished
	}

	if that.Board[row][col] != EmptyCell {
		return nil, apperror.ErrCellOccupied
	}

	if that.TurnOwner() != participantID || participantID == "" {
		return nil, apperror.ErrNotYourTurn
	}

	next := that.CurrentTurn.Opponent()

	return Fields{
		BoardField(row, col): that.CurrentTurn,
		FieldCurrentTurn:     next,
		FieldPlayersCurrent:  that.ParticipantFor(next.Color()),
	}, nil
}

// Reset - returns the room to its initial-creation shape, keeping the
// code, id, createdAt and slot bindings. Only Black may reset.
func (that *Room) Reset(participantID string) (Fields, error) {
	if that.Players.Black == "" || that.Players.Black != participantID {
		return nil, apperror.ErrNotBlack
	}

	fields := Fields{
		FieldCurrentTurn:    Black,
		FieldWinner:         EmptyCell,
		FieldGameStarted:    false,
		FieldReadyBlack:     false,
		FieldReadyWhite:     false,
		FieldPlayersCurrent: that.Players.Black,
	}

	for row := range BoardSize {
		for col := range BoardSize {
			fields[BoardField(row, col)] = EmptyCell
		}
	}

	return fields, nil
}
