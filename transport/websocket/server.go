package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/coldpeak/gomoku-rooms/internal/apperror"
	"github.com/coldpeak/gomoku-rooms/internal/entity"
	"github.com/coldpeak/gomoku-rooms/internal/monitor"
	"github.com/coldpeak/gomoku-rooms/internal/repository"
	"github.com/coldpeak/gomoku-rooms/internal/session"
)

// Server bridges browser clients to the game-session core. Each websocket
// connection gets its own session controller: the connection forwards the
// client's intents, the controller's snapshot feed flows back as JSON.
type Server struct {
	logger   *slog.Logger
	repo     repository.RoomRepository
	metrics  *monitor.Metrics
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, repo repository.RoomRepository, metrics *monitor.Metrics) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		repo:    repo,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

// Start - serves /ws until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	// The participant id is minted once per device and persisted by the
	// client; a first-time device gets one assigned here.
	participantID := r.URL.Query().Get("participant")
	if participantID == "" {
		participantID = uuid.NewString()
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	that.metrics.ConnectedClients.Inc()
	defer that.metrics.ConnectedClients.Dec()

	log.Info("client connected", "room_id", roomID)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	controller := session.NewController(that.logger, that.repo, that.metrics, roomID, participantID)

	runErr := make(chan error, 1)
	go func() {
		runErr <- controller.Run(connCtx)
	}()

	go that.writeLoop(connCtx, cancel, conn, controller, runErr, participantID)

	that.readLoop(connCtx, conn, controller)
}

// readLoop - decodes client intents and forwards them to the controller.
// Returning closes the connection.
func (that *Server) readLoop(ctx context.Context, conn *websocket.Conn, controller *session.Controller) {
	log := that.logger.With("method", "readLoop")

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("failed to read message", "error", err)
			}
			return
		}

		switch message.Action {
		case ActionSelectCell:
			controller.SelectCell(message.Row, message.Col)
		case ActionConfirm:
			controller.ConfirmStagedMove(ctx)
		case ActionCancel:
			controller.CancelStagedMove()
		case ActionSetReady:
			controller.SetReady(ctx, entity.Color(message.Color), message.Value)
		case ActionStart:
			controller.RequestStart(ctx)
		case ActionReset:
			controller.RequestReset(ctx)
		default:
			log.Debug("unknown action", "action", message.Action)
		}
	}
}

// writeLoop - owns all writes to the connection: snapshot pushes plus the
// room-not-found error. A dead subscription degrades to the last pushed
// state instead of dropping the client.
func (that *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, controller *session.Controller, runErr <-chan error, participantID string) {
	log := that.logger.With("method", "writeLoop")

	for {
		select {
		case snapshot := <-controller.Updates():
			message := StateMessage{Type: "state", ParticipantID: participantID, Snapshot: snapshot}
			if err := conn.WriteJSON(message); err != nil {
				log.Debug("failed to push state", "error", err)
				cancel()

				return
			}
		case err := <-runErr:
			if errors.Is(err, apperror.ErrRoomNotFound) {
				_ = conn.WriteJSON(ErrorMessage{Type: "error", Error: "room not found"})
				cancel()

				return
			}

			if err != nil {
				log.Error("session stopped", "error", err)
				_ = conn.WriteJSON(ErrorMessage{Type: "error", Error: "connection to the room was lost"})
			}
		case <-ctx.Done():
			return
		}
	}
}
