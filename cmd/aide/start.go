package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/aide/pkg/log"
	"github.com/sandevgo/aide/pkg/srv"
	"github.com/spf13/cobra"
)

var startOpts StartOptions

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the assistant with its chat transports and reminder scheduler",
	Long: `Starts every configured service: the Telegram bot, the interactive
terminal chat, the metrics endpoint and the reminder scheduler. Runs until
interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctx, flushLog := setupLogger(ctx)
		defer flushLog()
		logger := log.FromCtx(ctx)

		services, err := NewServices(ctx, startOpts)
		if err != nil {
			return err
		}
		logger.Info().Int("services", len(services)).Msg("starting aide")

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)

		logger.Info().Msg("aide stopped")
		return nil
	},
}

func init() {
	startCmd.Flags().BoolVar(&startOpts.NoCLI, "no-cli", false, "do not open the terminal chat even if enabled")
	startCmd.Flags().BoolVar(&startOpts.NoMetrics, "no-metrics", false, "do not serve the metrics endpoint")
	rootCmd.AddCommand(startCmd)
}
