package cmd

import (
	"fmt"
	"log"
	"os"

	"barbershop-booking/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "barbershop-booking",
		Short:         "Appointment booking and availability API for barbershops",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config and the logger shared by every command.
func bootstrap() (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production logger.", err)
		logger, _ = zap.NewProduction()
	}

	return config, logger, nil
}
