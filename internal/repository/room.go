package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coldpeak/gomoku-rooms/internal/apperror"
	"github.com/coldpeak/gomoku-rooms/internal/entity"
)

// RoomRepository is the store contract the session core depends on: plain
// document reads, field-level merge writes and a push-based change feed.
// There is no compare-and-swap; concurrent writers get last-write-wins per
// field, which is exactly what the transition guards are designed around.
type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	GetByCode(ctx context.Context, code string) (*entity.Room, error)
	Merge(ctx context.Context, id string, fields entity.Fields) error
	Subscribe(ctx context.Context, id string) (<-chan *entity.Room, func(), error)
}

type dbRoom struct {
	logger *slog.Logger
	client *redis.Client
}

func NewRoomRepository(logger *slog.Logger, client *redis.Client) RoomRepository {
	return &dbRoom{
		logger: logger.With("component", "room-repository"),
		client: client,
	}
}

func roomKey(id string) string       { return "room:" + id }
func codeKey(code string) string     { return "roomcode:" + code }
func changeChannel(id string) string { return "room:changed:" + id }

// Create - writes the full initial document and indexes the human room
// code, then notifies subscribers.
func (that *dbRoom) Create(ctx context.Context, room *entity.Room) error {
	fields := encodeRoom(room)

	if err := that.client.HSet(ctx, roomKey(room.ID), fields).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	if err := that.client.Set(ctx, codeKey(room.Code), room.ID, 0).Err(); err != nil {
		return fmt.Errorf("failed to index room code: %w", err)
	}

	return that.notify(ctx, room.ID)
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	fields, err := that.client.HGetAll(ctx, roomKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if len(fields) == 0 {
		return nil, apperror.ErrRoomNotFound
	}

	room, err := decodeRoom(id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode room: %w", err)
	}

	return room, nil
}

func (that *dbRoom) GetByCode(ctx context.Context, code string) (*entity.Room, error) {
	id, err := that.client.Get(ctx, codeKey(code)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to look up room code: %w", err)
	}

	return that.GetByID(ctx, id)
}

// Merge - writes only the named field paths. Each hash field is replaced
// independently, so two racing writers merge last-write-wins per field
// with no cross-field atomicity.
func (that *dbRoom) Merge(ctx context.Context, id string, fields entity.Fields) error {
	encoded := make(map[string]string, len(fields))

	for path, value := range fields {
		str, err := encodeValue(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", path, err)
		}
		encoded[path] = str
	}

	if err := that.client.HSet(ctx, roomKey(id), encoded).Err(); err != nil {
		return fmt.Errorf("failed to merge room fields: %w", err)
	}

	return that.notify(ctx, id)
}

// Subscribe - delivers the full re-read document on every change until the
// returned cancel func is called or the context ends. Delivery is
// at-least-once with best-effort ordering; a failed re-read degrades to
// the subscriber's last-known state.
func (that *dbRoom) Subscribe(ctx context.Context, id string) (<-chan *entity.Room, func(), error) {
	pubsub := that.client.Subscribe(ctx, changeChannel(id))

	// Fail fast if the subscription itself cannot be established.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to room: %w", err)
	}

	updates := make(chan *entity.Room, 1)

	go func() {
		defer close(updates)

		for range pubsub.Channel() {
			room, err := that.GetByID(ctx, id)
			if err != nil {
				that.logger.Error("failed to re-read room after change", "room_id", id, "error", err)
				continue
			}

			select {
			case updates <- room:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			that.logger.Error("failed to close room subscription", "room_id", id, "error", err)
		}
	}

	return updates, cancel, nil
}

func (that *dbRoom) notify(ctx context.Context, id string) error {
	if err := that.client.Publish(ctx, changeChannel(id), id).Err(); err != nil {
		return fmt.Errorf("failed to publish room change: %w", err)
	}

	return nil
}

func encodeValue(value any) (string, error) {
	switch v := value.(type) {
	case entity.Mark:
		return string(v), nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	default:
		return "", fmt.Errorf("unsupported field value type %T", value)
	}
}

func encodeRoom(room *entity.Room) map[string]string {
	fields := map[string]string{
		"roomCode":                 room.Code,
		"createdAt":                room.CreatedAt.UTC().Format(time.RFC3339Nano),
		entity.FieldCurrentTurn:    string(room.CurrentTurn),
		entity.FieldWinner:         string(room.Winner),
		entity.FieldGameStarted:    strconv.FormatBool(room.GameStarted),
		entity.FieldPlayersBlack:   room.Players.Black,
		entity.FieldPlayersWhite:   room.Players.White,
		entity.FieldPlayersCurrent: room.Players.Current,
		entity.FieldReadyBlack:     strconv.FormatBool(room.Ready.Black),
		entity.FieldReadyWhite:     strconv.FormatBool(room.Ready.White),
	}

	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			fields[entity.BoardField(row, col)] = string(room.Board[row][col])
		}
	}

	return fields
}

func decodeRoom(id string, fields map[string]string) (*entity.Room, error) {
	room := &entity.Room{
		ID:          id,
		Code:        fields["roomCode"],
		CurrentTurn: entity.Mark(fields[entity.FieldCurrentTurn]),
		Winner:      entity.Mark(fields[entity.FieldWinner]),
		Players: entity.Players{
			Black:   fields[entity.FieldPlayersBlack],
			White:   fields[entity.FieldPlayersWhite],
			Current: fields[entity.FieldPlayersCurrent],
		},
	}

	room.GameStarted = fields[entity.FieldGameStarted] == "true"
	room.Ready.Black = fields[entity.FieldReadyBlack] == "true"
	room.Ready.White = fields[entity.FieldReadyWhite] == "true"

	if raw := fields["createdAt"]; raw != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("bad createdAt %q: %w", raw, err)
		}
		room.CreatedAt = createdAt
	}

	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			room.Board[row][col] = entity.Mark(fields[entity.BoardField(row, col)])
		}
	}

	return room, nil
}
