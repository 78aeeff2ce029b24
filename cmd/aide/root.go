package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/aide/internal/config"
	"github.com/sandevgo/aide/internal/service/ui"
	"github.com/sandevgo/aide/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug     bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "aide",
	Short: "Aide, a personal assistant for weather, news, reminders and notes",
	Long: `Aide turns plain-language requests such as "remind me to call mum at 6pm"
or "weather in Paris" into actions, over Telegram, the terminal or MCP.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.LogFormat(), "log output: console or json")
}

func loggerTo(ctx context.Context, out io.Writer) (context.Context, func()) {
	return log.NewContext(ctx, log.Options{
		Out:    out,
		Debug:  debug || config.IsDebug(),
		Format: log.ParseFormat(logFormat),
	})
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return loggerTo(ctx, os.Stdout)
}

// setupStderrLogger keeps stdout free for command output and protocol traffic.
func setupStderrLogger(ctx context.Context) (context.Context, func()) {
	return loggerTo(ctx, os.Stderr)
}

// initEnv loads runtimePath/.env when present. Variables already set in the
// process environment win.
func initEnv(ctx context.Context, runtimePath string) error {
	envFile := filepath.Join(runtimePath, ".env")

	err := godotenv.Load(envFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	}

	log.FromCtx(ctx).Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

const helpTemplate = `
{{StyleTitle "USAGE"}}
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}
{{if .HasExample}}
{{StyleTitle "EXAMPLES"}}
{{.Example}}
{{end}}{{if .HasAvailableSubCommands}}
{{StyleTitle "COMMANDS"}}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}{{end}}
{{end}}{{if .HasAvailableLocalFlags}}
{{StyleTitle "FLAGS"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableInheritedFlags}}
{{StyleTitle "GLOBAL FLAGS"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
`

// CustomizeHelp renders help output with the terminal palette.
func CustomizeHelp(cmd *cobra.Command) {
	cobra.AddTemplateFuncs(map[string]any{
		"StyleTitle": ui.TitleStyle.Render,
		"StyleUsage": ui.UsageStyle.Render,
		"StyleFlag":  ui.FlagStyle.Render,
		"StyleDesc":  ui.DescStyle.Render,
	})
	cmd.SetHelpTemplate(helpTemplate)
}
