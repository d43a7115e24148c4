package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/noughts-crosses/internal/config"
	"github.com/rocketscienceinc/noughts-crosses/internal/metrics"
	"github.com/rocketscienceinc/noughts-crosses/internal/repository"
	"github.com/rocketscienceinc/noughts-crosses/internal/repository/storage"
	"github.com/rocketscienceinc/noughts-crosses/internal/terminal"
	"github.com/rocketscienceinc/noughts-crosses/internal/usecase"
	"github.com/rocketscienceinc/noughts-crosses/transport/rest"
	"github.com/rocketscienceinc/noughts-crosses/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - serves the game page, the websocket endpoint and the metrics until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sessionRepo, closeRepo, err := newSessionRepository(ctx, log, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeRepo(); err != nil {
			log.Error("could not close session storage", "error", err)
		}
	}()

	gameUseCase := usecase.NewGameManager(logger, sessionRepo, metrics.New(prometheus.DefaultRegisterer))
	wsServer := websocket.New(logger, gameUseCase)

	gin.SetMode(gin.ReleaseMode)
	router := rest.NewRouter(logger, rest.MetricsHandler(), wsServer)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "session_store", conf.SessionStore)
	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// RunTerminal - plays one game in the terminal, keeping the session in memory.
func RunTerminal(logger *slog.Logger) error {
	gameUseCase := usecase.NewGameManager(logger, repository.NewMemorySessionRepository(), metrics.New(prometheus.NewRegistry()))

	return terminal.Run(context.Background(), gameUseCase)
}

func newSessionRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.SessionRepository, func() error, error) {
	if conf.SessionStore == config.StoreMemory {
		return repository.NewMemorySessionRepository(), func() error { return nil }, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisAddrString := conf.Redis.GetRedisAddr()

	client, err := storage.NewRedis(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Connected to redis", "addr", redisAddrString, "session_ttl", conf.SessionTTL)

	return repository.NewSessionRepository(client, conf.SessionTTL), client.Close, nil
}
