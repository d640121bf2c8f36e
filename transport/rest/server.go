package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coldpeak/gomoku-rooms/internal/entity"
)

type lobby interface {
	CreateRoom(ctx context.Context) (*entity.Room, error)
	FindByCode(ctx context.Context, code string) (*entity.Room, error)
}

type Server struct {
	logger *slog.Logger
	lobby  lobby
	meters prometheus.Gatherer
}

func New(logger *slog.Logger, lobby lobby, meters prometheus.Gatherer) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		lobby:  lobby,
		meters: meters,
	}
}

// Start - serves the lobby endpoints, health check and metrics until the
// context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlePing)
	mux.HandleFunc("POST /rooms", that.handleCreateRoom)
	mux.HandleFunc("GET /rooms/{code}", that.handleFindRoom)
	mux.Handle("GET /metrics", promhttp.HandlerFor(that.meters, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
