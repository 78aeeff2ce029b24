package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sandevgo/aide/internal/transport/cli"
	"github.com/sandevgo/aide/pkg/conv"
	"github.com/sandevgo/aide/pkg/srv"
	"github.com/spf13/cobra"
)

var askUser string

var askCmd = &cobra.Command{
	Use:          "ask [request]",
	Short:        "Run a single request and print the reply",
	Example:      `  aide ask "what's the weather in Paris"`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer srv.StopServices(ctx, app.Services())

		res, reply := app.Assistant.Handle(ctx, askUser, strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), conv.MarkdownToText(reply, false))
		if !res.Success {
			return fmt.Errorf("request failed: %s", res.Error)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", cli.DefaultUserID, "user the request runs as")
	rootCmd.AddCommand(askCmd)
}
