package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/coldpeak/gomoku-rooms/internal/entity"
	"github.com/coldpeak/gomoku-rooms/internal/monitor"
)

type roomRepo interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByCode(ctx context.Context, code string) (*entity.Room, error)
}

// Lobby creates rooms and resolves human-shareable codes to room ids. The
// opaque room id identifies the document; the 6-digit code is only for
// people to type.
type Lobby struct {
	logger  *slog.Logger
	repo    roomRepo
	metrics *monitor.Metrics
}

func NewLobby(logger *slog.Logger, repo roomRepo, metrics *monitor.Metrics) *Lobby {
	return &Lobby{
		logger:  logger.With("component", "lobby"),
		repo:    repo,
		metrics: metrics,
	}
}

// CreateRoom - writes a fresh empty room: all 100 cells present, Black to
// open, nobody seated.
func (that *Lobby) CreateRoom(ctx context.Context) (*entity.Room, error) {
	room := entity.NewRoom(uuid.NewString(), generateRoomCode(), time.Now())

	if err := that.repo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	that.metrics.RoomsCreated.Inc()
	that.logger.Info("room created", "room_id", room.ID, "room_code", room.Code)

	return room, nil
}

// FindByCode - resolves a 6-digit room code; ErrRoomNotFound when the code
// does not match a room.
func (that *Lobby) FindByCode(ctx context.Context, code string) (*entity.Room, error) {
	room, err := that.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find room by code: %w", err)
	}

	return room, nil
}

func generateRoomCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000)) //nolint:gosec // codes are shareable, not secret
}
