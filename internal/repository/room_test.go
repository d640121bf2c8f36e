package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldpeak/gomoku-rooms/internal/apperror"
	"github.com/coldpeak/gomoku-rooms/internal/entity"
	"github.com/coldpeak/gomoku-rooms/testing/suite"
)

func TestRoomRepository_CreateAndGet(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Logger, st.Storage)

	// Given: a fresh room with one mark placed
	room := entity.NewRoom("room-1", "123456", time.Now())
	room.Board[4][5] = entity.Black
	room.Players.Black = "participant-black"
	room.Players.Current = "participant-black"

	// When: the room is created and read back by id
	err := roomRepo.Create(ctx, room)
	require.NoError(t, err)

	loaded, err := roomRepo.GetByID(ctx, room.ID)

	// Then: the full document round-trips, cell for cell
	require.NoError(t, err)
	assert.Equal(t, room.Code, loaded.Code)
	assert.Equal(t, room.Board, loaded.Board)
	assert.Equal(t, room.Players, loaded.Players)
	assert.Equal(t, entity.Black, loaded.CurrentTurn)
	assert.False(t, loaded.GameStarted)
	assert.WithinDuration(t, room.CreatedAt, loaded.CreatedAt, time.Millisecond)
}

func TestRoomRepository_GetByCode(t *testing.T) {
	t.Run("Resolves a known code to its room", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Logger, st.Storage)

		// Given: a created room
		room := entity.NewRoom("room-1", "654321", time.Now())
		require.NoError(t, roomRepo.Create(ctx, room))

		// When: looking the room up by its human code
		loaded, err := roomRepo.GetByCode(ctx, "654321")

		// Then: the same room comes back
		require.NoError(t, err)
		assert.Equal(t, room.ID, loaded.ID)
	})

	t.Run("Unknown code returns ErrRoomNotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Logger, st.Storage)

		// When: looking up a code nobody created
		_, err := roomRepo.GetByCode(ctx, "000000")

		// Then: the lookup reports not found
		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestRoomRepository_GetByID_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Logger, st.Storage)

	// When: reading an id that does not resolve to a document
	_, err := roomRepo.GetByID(ctx, "missing")

	// Then: the read reports not found
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestRoomRepository_Merge(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Logger, st.Storage)

	// Given: a created room
	room := entity.NewRoom("room-1", "123456", time.Now())
	require.NoError(t, roomRepo.Create(ctx, room))

	// When: a move's field set is merged
	err := roomRepo.Merge(ctx, room.ID, entity.Fields{
		entity.BoardField(4, 5):    entity.Black,
		entity.FieldCurrentTurn:    entity.White,
		entity.FieldPlayersCurrent: "participant-white",
	})
	require.NoError(t, err)

	// Then: only the named fields changed
	loaded, err := roomRepo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Black, loaded.Board[4][5])
	assert.Equal(t, entity.White, loaded.CurrentTurn)
	assert.Equal(t, "participant-white", loaded.Players.Current)
	assert.Equal(t, entity.EmptyCell, loaded.Board[0][0])
	assert.Equal(t, room.Code, loaded.Code)
}

func TestRoomRepository_Subscribe(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Logger, st.Storage)

	// Given: a created room with one live subscription
	room := entity.NewRoom("room-1", "123456", time.Now())
	require.NoError(t, roomRepo.Create(ctx, room))

	updates, cancel, err := roomRepo.Subscribe(ctx, room.ID)
	require.NoError(t, err)
	defer cancel()

	// When: a writer merges a readiness change
	require.NoError(t, roomRepo.Merge(ctx, room.ID, entity.Fields{entity.FieldReadyBlack: true}))

	// Then: the subscriber receives the full updated document
	select {
	case updated := <-updates:
		assert.True(t, updated.Ready.Black)
		assert.Equal(t, room.Code, updated.Code)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a room update")
	}
}
