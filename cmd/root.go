package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cartCmd "github.com/Alturino/cityat/cart/cmd"
	"github.com/Alturino/cityat/internal/constants"
	"github.com/Alturino/cityat/internal/log"
	locationCmd "github.com/Alturino/cityat/location/cmd"
	notificationCmd "github.com/Alturino/cityat/notification/cmd"
)

const (
	bootstrapLogPath = "/var/log/cityat.log"
	envApplication   = "APPLICATION_ENV"
)

func Start() {
	bootstrapLogger, logWriter := log.InitLogger(bootstrapLogPath, os.Getenv(envApplication))
	defer logWriter.Close()
	logger := bootstrapLogger.With().
		Str(log.KeyAppName, constants.APP_MAIN_CITYAT).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{
		Use:          "cityat",
		Short:        "Run the cityat state services",
		SilenceUsage: true,
	}
	commands := []*cobra.Command{
		{
			Use:   "cart",
			Short: "Run cart service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return cartCmd.RunCartService(cmd.Context())
			},
		},
		{
			Use:   "location",
			Short: "Run location service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return locationCmd.RunLocationService(cmd.Context())
			},
		},
		{
			Use:   "notification",
			Short: "Run notification service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return notificationCmd.RunNotificationService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Error().Err(err).Msgf("error when executing command=%s", err.Error())
		stop()
		logWriter.Close()
		os.Exit(1)
	}
}
