package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/empleoya/internal/category"
	categoryPostgres "github.com/frahmantamala/empleoya/internal/category/postgres"
	"github.com/frahmantamala/empleoya/internal/offer"
	offerPostgres "github.com/frahmantamala/empleoya/internal/offer/postgres"
	"github.com/frahmantamala/empleoya/internal/scheduler"
	"github.com/frahmantamala/empleoya/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that run outside the HTTP server.`,
}

var (
	expiryWorkerCmd = &cobra.Command{
		Use:   "expiry",
		Short: "Start the offer expiry worker",
		Long:  `Periodically move active offers whose fecha_expiracion has passed to expirada`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startExpiryWorker()
		},
	}
	expirySchedule string
	expiryOnce     bool
)

func startExpiryWorker() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, readDB, err := initDB(cfg.Database, false)
	if err != nil {
		return err
	}
	defer readDB.Close()

	categories := category.NewService(categoryPostgres.NewCategoryRepository(db), lg)
	offers := offer.NewService(offerPostgres.NewOfferRepository(db), categories, cfg.Offers, lg)

	if expiryOnce {
		n, err := offers.ExpireOverdue(context.Background())
		if err != nil {
			return err
		}
		lg.Info("expired overdue offers", "count", n)
		return nil
	}

	schedule := getStringFlag(expirySchedule, cfg.Offers.ExpiryCron)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(offers, schedule, lg)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	lg.Info("expiry worker is running. Press Ctrl+C to stop.", "schedule", schedule)

	<-ctx.Done()
	lg.Info("received signal, shutting down expiry worker")

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()

	select {
	case <-done:
		lg.Info("expiry worker shutdown complete")
	case <-time.After(30 * time.Second):
		lg.Warn("shutdown timeout reached, forcing exit")
	}
	return nil
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	expiryWorkerCmd.Flags().StringVar(&expirySchedule, "schedule", "", "cron expression (overrides offers.expiry_cron)")
	expiryWorkerCmd.Flags().BoolVar(&expiryOnce, "once", false, "run a single pass and exit")

	workerCmd.AddCommand(expiryWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
