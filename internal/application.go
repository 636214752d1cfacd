package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-area/internal/config"
	"github.com/rocketscienceinc/tictactoe-area/internal/repository"
	"github.com/rocketscienceinc/tictactoe-area/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-area/internal/service"
	redistransport "github.com/rocketscienceinc/tictactoe-area/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-area/internal/transport/rest"
	"github.com/rocketscienceinc/tictactoe-area/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-area/internal/usecase"
)

// RunApp - runs the application.
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

	hub := websocket.NewHub(logger)
	listeners := []service.Listener{hub}

	var playerRepo repository.PlayerRepository

	if conf.Redis.Enabled {
		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr(), conf.Redis.DB)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		playerRepo = repository.NewRedisPlayerRepository(redisStorage)

		publisher := redistransport.NewPublisher(logger, redisStorage, conf.Events.ChannelPrefix, conf.Events.BufferSize)
		go publisher.Run(ctx)

		listeners = append(listeners, publisher)
	} else {
		log.Warn("redis disabled, players are kept in memory")
		playerRepo = repository.NewMemoryPlayerRepository()
	}

	areas := service.NewAreaRegistry(logger, listeners)
	playerService := service.NewPlayerService(playerRepo)
	gameUseCase := usecase.NewGameUseCase(logger, playerService, areas)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		router := rest.NewRouter(rest.NewHandlers(logger, gameUseCase))
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, router); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
