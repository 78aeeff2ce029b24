package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/aide/internal/transport/mcp"
	"github.com/sandevgo/aide/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the assistant as MCP tools over stdio",
	Long: `Runs a Model Context Protocol server on stdin/stdout exposing the
parse_utterance, ask_assistant and refresh_cache tools. Logs go to stderr.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupStderrLogger(ctx)
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}

		server := mcp.NewServer(app.Assistant, app.Dispatcher).
			WithIO(cmd.InOrStdin(), cmd.OutOrStdout())

		services := app.Services()
		srv.StartServices(ctx, services)
		defer srv.StopServices(ctx, append(services, server))

		return server.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
