package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/app"
	authRedis "github.com/frahmantamala/empleoya/internal/auth/redis"
	"github.com/frahmantamala/empleoya/internal/scheduler"
	"github.com/frahmantamala/empleoya/internal/storage"
	"github.com/frahmantamala/empleoya/internal/transport/rest"
	"github.com/frahmantamala/empleoya/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	httpServerCmd = &cobra.Command{
		Use:   "server",
		Short: "Start HTTP server",
		Long:  `Start the HTTP server serving the JSON API, the OpenAPI document and the public pages`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startHTTPServer()
		},
	}
	withExpiry bool
)

func init() {
	httpServerCmd.Flags().BoolVar(&withExpiry, "with-expiry", false, "also run the offer expiry scheduler in-process")
}

func startHTTPServer() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, readDB, err := initDB(cfg.Database, cfg.Logging.Level == "debug")
	if err != nil {
		return err
	}
	defer readDB.Close()

	opts := app.Options{
		Checks: map[string]rest.HealthCheck{},
		Logger: lg,
	}

	if cfg.Redis.URL != "" {
		rdb, err := authRedis.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts.Revoker = authRedis.NewRevoker(rdb, cfg.Redis.KeyPrefix)
		opts.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		lg.Warn("redis not configured, logout will not revoke tokens")
	}

	if cfg.Storage.Enabled() {
		st, err := initStorage(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		opts.Storage = st
		opts.Checks["storage"] = st.Ping
	}

	application, err := app.New(ctx, cfg, db, readDB, opts)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	if withExpiry {
		sched := scheduler.New(application.Services.Offers, cfg.Offers.ExpiryCron, lg)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           application.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("http server listening", "addr", server.Addr, "env", cfg.Server.Env)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		lg.Info("received signal, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("server shutdown error", "error", err)
		}
		if err := application.Bus.Drain(shutdownCtx); err != nil {
			lg.Warn("pending notifications dropped", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server failed", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("server stopped")
	return nil
}

func initStorage(ctx context.Context, cfg internal.StorageConfig) (*storage.MinioStorage, error) {
	st, err := storage.NewMinioStorage(cfg)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return st, nil
}
