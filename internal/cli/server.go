package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-game-service/internal/app"
	"quiz-game-service/internal/config"
	"quiz-game-service/internal/infra/memory"
	"quiz-game-service/internal/infra/postgres"
	redisstore "quiz-game-service/internal/infra/redis"
	"quiz-game-service/internal/infra/sqlite"
	transport "quiz-game-service/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	repo, closeStore, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	service := app.NewGameServiceWithOptions(repo, app.Options{KeyAttempts: cfg.Keys.Attempts})

	gin.SetMode(gin.ReleaseMode)
	requestTimeout := config.Duration(cfg.Server.RequestTimeout, 10*time.Second)
	router := transport.NewRouter(service, transport.RouterConfig{
		RequestTimeout: requestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("starting game service", "port", finalPort, "store", cfg.StoreDriver())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openRepository connects the configured store. The returned func releases it.
func openRepository(ctx context.Context, cfg config.Config) (app.GameRepository, func(), error) {
	switch driver := cfg.StoreDriver(); driver {
	case config.DriverPostgres:
		if err := runMigrations(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewGameRepository(pool), pool.Close, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisstore.NewGameRepository(client), func() { _ = client.Close() }, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return sqlite.NewGameRepository(db), closeDB, nil

	default:
		slog.Warn("using in-memory store; games are lost on restart")
		return memory.NewGameRepository(), func() {}, nil
	}
}
