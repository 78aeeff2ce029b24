package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/internal/transport/cli"
	"github.com/sandevgo/aide/pkg/srv"
	"github.com/spf13/cobra"
)

const reminderLayout = "Mon 2 Jan 15:04"

var (
	remindersUser  string
	remindersAll   bool
	remindersWatch bool
)

var remindersCmd = &cobra.Command{
	Use:          "reminders",
	Short:        "List reminders, meetings and tasks",
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
		defer srv.StopServices(ctx, app.Services())

		out := cmd.OutOrStdout()

		if !remindersWatch {
			items, err := app.Store.ListReminders(ctx, remindersUser, core.ReminderFilter{PendingOnly: !remindersAll})
			if err != nil {
				return err
			}
			printReminders(out, items)
			return nil
		}

		updates, err := app.Store.WatchReminders(ctx, remindersUser)
		if err != nil {
			return err
		}
		for items := range updates {
			fmt.Fprintln(out, "---")
			printReminders(out, filterPending(items, !remindersAll))
		}
		return nil
	},
}

func filterPending(items []core.Reminder, pendingOnly bool) []core.Reminder {
	if !pendingOnly {
		return items
	}
	pending := make([]core.Reminder, 0, len(items))
	for _, r := range items {
		if !r.Completed {
			pending = append(pending, r)
		}
	}
	return pending
}

func printReminders(out io.Writer, items []core.Reminder) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Nothing scheduled.")
		return
	}
	for _, r := range items {
		mark := " "
		if r.Completed {
			mark = "✓"
		}
		fmt.Fprintf(out, "%s %-16s %-8s %-6s %s\n", mark, r.DueDate.Local().Format(reminderLayout), r.Kind, r.Priority, r.Title)
	}
}

func init() {
	remindersCmd.Flags().StringVarP(&remindersUser, "user", "u", cli.DefaultUserID, "owner of the reminders")
	remindersCmd.Flags().BoolVarP(&remindersAll, "all", "a", false, "include completed items")
	remindersCmd.Flags().BoolVarP(&remindersWatch, "watch", "w", false, "print the list again whenever it changes")
	rootCmd.AddCommand(remindersCmd)
}
