package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"barbershop-booking/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			db, err := database.InitDB(ctx, config.Database)
			if err != nil {
				logger.Error("Failed to connect to database", zap.Error(err))
				return err
			}
			defer db.Close()

			return database.Migrate(ctx, db, logger)
		},
	}
}
