package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"barbershop-booking/internal/data/repository"
	"barbershop-booking/internal/wire"
	"barbershop-booking/internal/worker"
	"barbershop-booking/pkg/database"
	"barbershop-booking/pkg/tracing"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox publisher",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			logger.Info("Starting application",
				zap.String("app", config.App.Name),
				zap.String("port", config.App.Port),
				zap.Bool("debug", config.App.Debug),
				zap.String("version", Version),
			)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			shutdownTracing, err := tracing.Setup(ctx, config.App.Name, config.Tracing, logger)
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}
			defer func() {
				flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer flushCancel()
				if err := shutdownTracing(flushCtx); err != nil {
					logger.Warn("Failed to flush traces", zap.Error(err))
				}
			}()

			db, err := database.InitDB(ctx, config.Database)
			if err != nil {
				logger.Error("Failed to connect to database", zap.Error(err))
				return err
			}
			defer db.Close()
			logger.Info("Database connected successfully")

			if migrateUp {
				if err := database.Migrate(ctx, db, logger); err != nil {
					return err
				}
			}

			var rdb *redis.Client
			if config.Redis.Addr != "" {
				rdb = redis.NewClient(&redis.Options{
					Addr:     config.Redis.Addr,
					Password: config.Redis.Password,
					DB:       config.Redis.DB,
				})
				defer rdb.Close()
				if err := rdb.Ping(ctx).Err(); err != nil {
					// Cache errors fall through to the directory.
					logger.Warn("Redis unreachable at startup", zap.String("addr", config.Redis.Addr), zap.Error(err))
				}
			}

			repos := repository.NewRepository(db, config.Booking.StoreTimeout, logger)

			app, err := wire.Wiring(wire.Deps{
				DB:     db,
				Redis:  rdb,
				Repo:   repos,
				Config: config,
				Log:    logger,
			})
			if err != nil {
				return err
			}

			var wg sync.WaitGroup
			if publisher := worker.NewOutboxPublisher(repos.Outbox, config.Kafka, logger); publisher != nil {
				wg.Add(1)
				go func() {
					defer wg.Done()
					publisher.Run(ctx)
				}()
			}

			err = APIServer(ctx, app.Handler, config.App.Port, config.App.ShutdownTimeout, logger)
			cancel()
			wg.Wait()
			return err
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply database migrations before serving")
	return cmd
}
