package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coldpeak/gomoku-rooms/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
}

type roomResponse struct {
	ID       string `json:"id"`
	RoomCode string `json:"roomCode"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := that.lobby.CreateRoom(r.Context())
	if err != nil {
		that.logger.Error("failed to create room", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to create room, please try again"})

		return
	}

	that.writeJSON(w, http.StatusCreated, roomResponse{ID: room.ID, RoomCode: room.Code})
}

func (that *Server) handleFindRoom(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	room, err := that.lobby.FindByCode(r.Context(), code)

	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "room not found, please check the room code"})
		return
	}

	if err != nil {
		that.logger.Error("failed to find room", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to look up room, please try again"})

		return
	}

	that.writeJSON(w, http.StatusOK, roomResponse{ID: room.ID, RoomCode: room.Code})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
