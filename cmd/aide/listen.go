package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/internal/service/notify"
	"github.com/sandevgo/aide/internal/service/voice"
	"github.com/sandevgo/aide/pkg/conv"
	"github.com/sandevgo/aide/pkg/log"
	"github.com/sandevgo/aide/pkg/srv"
	"github.com/spf13/cobra"
)

const voiceUserID = "voice-local"

var (
	listenCommand []string
	listenNoWake  bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Handle spoken requests from a speech-to-text feed",
	Long: `Reads transcripts line by line, from stdin or from the output of a
speech-to-text command, and answers those that follow the wake word.`,
	Example:      `  aide listen --stt whisper-stream --stt=-m --stt=base.en`,
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

		var source *voice.LineSource
		if len(listenCommand) > 0 {
			source = voice.NewCommandSource(listenCommand[0], listenCommand[1:]...)
		} else {
			source = voice.NewReaderSource(cmd.InOrStdin())
		}

		out := cmd.OutOrStdout()
		opts := []voice.ListenerOption{
			voice.WithReply(func(text string) { fmt.Fprintln(out, conv.MarkdownToText(text, true)) }),
		}
		if !listenNoWake {
			opts = append(opts, voice.WithWakeWord(voice.NewWakeWord(app.Config.WakeWord)))
		}
		listener := voice.NewListener(source, app.Assistant, voiceUserID, opts...)

		app.Sinks = append(app.Sinks, voicePrinter(out))
		services := app.Services()
		srv.StartServices(ctx, services)
		defer srv.StopServices(ctx, append(services, listener))

		log.FromCtx(ctx).Info().Str("wake_word", app.Config.WakeWord).Msg("listening")
		return listener.Start(ctx)
	},
}

// voicePrinter prints notifications for the voice user next to replies.
func voicePrinter(out io.Writer) core.Notifier {
	return notify.Func(func(ctx context.Context, n core.Notification) error {
		if n.UserID != voiceUserID {
			return nil
		}
		_, err := fmt.Fprintf(out, "🔔 %s\n%s\n", n.Title, n.Body)
		return err
	})
}

func init() {
	listenCmd.Flags().StringSliceVar(&listenCommand, "stt", nil, "speech-to-text command and its arguments; reads stdin when empty")
	listenCmd.Flags().BoolVar(&listenNoWake, "no-wake", false, "handle every transcript without waiting for the wake word")
	rootCmd.AddCommand(listenCmd)
}
