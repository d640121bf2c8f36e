package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coldpeak/gomoku-rooms/internal/entity"
	"github.com/coldpeak/gomoku-rooms/internal/gomoku"
	"github.com/coldpeak/gomoku-rooms/internal/monitor"
)

type roomRepo interface {
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	Merge(ctx context.Context, id string, fields entity.Fields) error
	Subscribe(ctx context.Context, id string) (<-chan *entity.Room, func(), error)
}

// Snapshot is everything the presentation layer needs per render: the
// latest observed room, the local participant's bound color (empty while
// unbound) and the currently staged cell, if any.
type Snapshot struct {
	Room   *entity.Room `json:"room"`
	Color  entity.Color `json:"color,omitempty"`
	Staged *entity.Cell `json:"staged,omitempty"`
}

// Controller drives one participant's session against a shared room
// document. It keeps a live view through the store's change feed, binds
// the injected participant id to an open color slot, stages at most one
// pending move, and exposes the five transitions as its only mutation
// surface. Every guard is re-checked against the freshest known snapshot
// immediately before writing; a failed guard is a silent no-op and a
// failed store write is logged and absorbed, never propagated.
type Controller struct {
	logger  *slog.Logger
	repo    roomRepo
	metrics *monitor.Metrics

	roomID        string
	participantID string

	mu     sync.Mutex
	room   *entity.Room
	staged *entity.Cell

	updates chan Snapshot
}

// NewController - builds a session for one participant in one room. The
// participant id is a stable opaque string generated and persisted by the
// client device; it is configuration, not authentication.
func NewController(logger *slog.Logger, repo roomRepo, metrics *monitor.Metrics, roomID, participantID string) *Controller {
	return &Controller{
		logger:        logger.With("component", "session", "room_id", roomID),
		repo:          repo,
		metrics:       metrics,
		roomID:        roomID,
		participantID: participantID,
		updates:       make(chan Snapshot, 1),
	}
}

// Run - loads the room, subscribes to its change feed and drains it until
// the context ends or the feed closes. Returns ErrRoomNotFound if the
// room id does not resolve to a document.
func (that *Controller) Run(ctx context.Context) error {
	room, err := that.repo.GetByID(ctx, that.roomID)
	if err != nil {
		return err
	}

	feed, cancel, err := that.repo.Subscribe(ctx, that.roomID)
	if err != nil {
		return err
	}
	defer cancel()

	that.metrics.OpenSubscriptions.Inc()
	defer that.metrics.OpenSubscriptions.Dec()

	that.observe(ctx, room)

	for {
		select {
		case room, ok := <-feed:
			if !ok {
				that.logger.Warn("room change feed closed")
				return nil
			}
			that.observe(ctx, room)
		case <-ctx.Done():
			return nil
		}
	}
}

// Updates - emits a snapshot after every observed change or staging
// action. The channel coalesces: a slow consumer only ever misses
// intermediate states, never the latest one.
func (that *Controller) Updates() <-chan Snapshot {
	return that.updates
}

// Snapshot - the current view; Room is nil until the first load lands.
func (that *Controller) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// SelectCell - stages a pending move on an empty cell. Visual-only: no
// store write happens until the move is confirmed.
func (that *Controller) SelectCell(row, col int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room := that.room
	switch {
	case room == nil || that.staged != nil:
		return
	case !room.IsPlaying():
		return
	case !entity.InBounds(row, col) || room.Board[row][col] != entity.EmptyCell:
		return
	case room.TurnOwner() != that.participantID:
		return
	}

	that.staged = &entity.Cell{Row: row, Col: col}
	that.emitLocked()
}

// CancelStagedMove - discards the staged cell without any write.
func (that *Controller) CancelStagedMove() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.staged == nil {
		return
	}

	that.staged = nil
	that.emitLocked()
}

// ConfirmStagedMove - commits the staged cell as a Move transition, then
// re-runs win detection on the resulting board and publishes the winner
// as a separate write if a line of five or more is completed.
func (that *Controller) ConfirmStagedMove(ctx context.Context) {
	that.mu.Lock()

	room, staged := that.room, that.staged
	if room == nil || staged == nil {
		that.mu.Unlock()
		return
	}

	// Staging ends with the confirm either way.
	that.staged = nil

	fields, err := room.Move(that.participantID, staged.Row, staged.Col)
	if err != nil {
		that.emitLocked()
		that.mu.Unlock()
		that.logger.Debug("move rejected", "row", staged.Row, "col", staged.Col, "reason", err)
		return
	}

	board := room.Board
	board[staged.Row][staged.Col] = room.CurrentTurn

	that.emitLocked()
	that.mu.Unlock()

	if err := that.repo.Merge(ctx, that.roomID, fields); err != nil {
		that.logger.Error("failed to commit move", "error", err)
		return
	}

	that.metrics.MovesCommitted.Inc()

	if winner := gomoku.Detect(board, staged.Row, staged.Col); winner != entity.EmptyCell {
		if err := that.repo.Merge(ctx, that.roomID, entity.Fields{entity.FieldWinner: winner}); err != nil {
			that.logger.Error("failed to publish winner", "error", err)
			return
		}

		that.metrics.WinsDetected.Inc()
		that.logger.Info("winner detected", "winner", winner)
	}
}

// SetReady - latches the readiness flag for the given color.
func (that *Controller) SetReady(ctx context.Context, color entity.Color, value bool) {
	that.submit(ctx, "set ready", func(room *entity.Room) (entity.Fields, error) {
		return room.SetReady(that.participantID, color, value)
	})
}

// RequestStart - starts the game once both sides are ready. Black only.
func (that *Controller) RequestStart(ctx context.Context) {
	that.submit(ctx, "start", func(room *entity.Room) (entity.Fields, error) {
		return room.Start(that.participantID)
	})
}

// RequestReset - returns the room to its initial shape. Black only.
func (that *Controller) RequestReset(ctx context.Context) {
	that.submit(ctx, "reset", func(room *entity.Room) (entity.Fields, error) {
		return room.Reset(that.participantID)
	})
}

// submit - runs a transition guard against the freshest snapshot and, if
// it passes, issues the single merge write covering its field set.
func (that *Controller) submit(ctx context.Context, name string, transition func(*entity.Room) (entity.Fields, error)) {
	that.mu.Lock()
	room := that.room
	that.mu.Unlock()

	if room == nil {
		return
	}

	fields, err := transition(room)
	if err != nil {
		that.logger.Debug("transition rejected", "transition", name, "reason", err)
		return
	}

	if err := that.repo.Merge(ctx, that.roomID, fields); err != nil {
		that.logger.Error("failed to submit transition", "transition", name, "error", err)
	}
}

// observe - installs a freshly delivered snapshot, clears staging when the
// turn changed underneath the participant, and joins an open slot when the
// participant is not yet bound.
func (that *Controller) observe(ctx context.Context, room *entity.Room) {
	that.mu.Lock()

	if that.room != nil && that.staged != nil {
		if room.CurrentTurn != that.room.CurrentTurn || !room.IsPlaying() {
			that.staged = nil
		}
	}

	that.room = room
	that.emitLocked()
	that.mu.Unlock()

	if _, bound := room.ColorOf(that.participantID); bound {
		return
	}

	fields, err := room.Join(that.participantID)
	if err != nil {
		// Both slots taken: the participant watches as an outsider.
		return
	}

	if err := that.repo.Merge(ctx, that.roomID, fields); err != nil {
		that.logger.Error("failed to join room", "error", err)
	}
}

func (that *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{Room: that.room, Staged: that.staged}
	if that.room != nil {
		if color, bound := that.room.ColorOf(that.participantID); bound {
			snap.Color = color
		}
	}

	return snap
}

func (that *Controller) emitLocked() {
	snap := that.snapshotLocked()

	for {
		select {
		case that.updates <- snap:
			return
		default:
			select {
			case <-that.updates:
			default:
			}
		}
	}
}
