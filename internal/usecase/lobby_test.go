package usecase

import (
	"regexp"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldpeak/gomoku-rooms/internal/apperror"
	"github.com/coldpeak/gomoku-rooms/internal/entity"
	"github.com/coldpeak/gomoku-rooms/internal/monitor"
	"github.com/coldpeak/gomoku-rooms/internal/repository"
	"github.com/coldpeak/gomoku-rooms/testing/suite"
)

func TestLobby_CreateRoom(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := repository.NewRoomRepository(st.Logger, st.Storage)
	lobby := NewLobby(st.Logger, roomRepo, monitor.NewMetrics("test", prometheus.NewRegistry()))

	// When: a room is created
	room, err := lobby.CreateRoom(ctx)

	// Then: it has an opaque id, a 6-digit code and the initial shape
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), room.Code)
	assert.Equal(t, entity.Black, room.CurrentTurn)
	assert.False(t, room.GameStarted)
	assert.Equal(t, entity.Players{}, room.Players)

	// And: every cell exists and is empty in the stored document
	stored, err := roomRepo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Board{}, stored.Board)
}

func TestLobby_FindByCode(t *testing.T) {
	t.Run("Finds a created room by its code", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := repository.NewRoomRepository(st.Logger, st.Storage)
		lobby := NewLobby(st.Logger, roomRepo, monitor.NewMetrics("test", prometheus.NewRegistry()))

		room, err := lobby.CreateRoom(ctx)
		require.NoError(t, err)

		// When: the code is looked up
		found, err := lobby.FindByCode(ctx, room.Code)

		// Then: the same room comes back
		require.NoError(t, err)
		assert.Equal(t, room.ID, found.ID)
	})

	t.Run("Unknown code surfaces not found", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := repository.NewRoomRepository(st.Logger, st.Storage)
		lobby := NewLobby(st.Logger, roomRepo, monitor.NewMetrics("test", prometheus.NewRegistry()))

		// When: a code nobody created is looked up
		_, err := lobby.FindByCode(ctx, "999999")

		// Then: the lookup reports not found
		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}
