package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/empleoya/internal/core/events"
	"github.com/frahmantamala/empleoya/internal/notification"
	notificationPostgres "github.com/frahmantamala/empleoya/internal/notification/postgres"
	"github.com/frahmantamala/empleoya/internal/user"
	userPostgres "github.com/frahmantamala/empleoya/internal/user/postgres"
	"github.com/frahmantamala/empleoya/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	notifyCmd = &cobra.Command{
		Use:   "notify <email> <title> <message>",
		Short: "Send a system notification to a user",
		Args:  cobra.ExactArgs(3),
		RunE:  runNotify,
	}
	notifyLink string
)

func init() {
	notifyCmd.Flags().StringVar(&notifyLink, "link", "", "optional link shown with the notification")
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()
	ctx := context.Background()

	db, readDB, err := initDB(cfg.Database, false)
	if err != nil {
		return err
	}
	defer readDB.Close()

	users := user.NewService(userPostgres.NewUserRepository(db), cfg.Security.BCryptCost, lg)
	target, err := users.GetByEmail(ctx, args[0])
	if err != nil {
		return fmt.Errorf("lookup %s: %w", args[0], err)
	}

	bus := events.NewEventBus(lg)
	notifications := notification.NewService(notificationPostgres.NewNotificationRepository(db), lg)
	notification.NewEventHandler(notifications, lg).RegisterEventHandlers(bus)

	if err := bus.PublishSync(ctx, events.NewSystemMessageEvent(target.ID, args[1], args[2], notifyLink)); err != nil {
		return err
	}
	lg.Info("notification sent", "user_id", target.ID, "email", target.Email)
	return nil
}
