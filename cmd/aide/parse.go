package main

import (
	"encoding/json"
	"strings"

	"github.com/sandevgo/aide/internal/service/intent"
	"github.com/spf13/cobra"
)

var parseWeekday string

var parseCmd = &cobra.Command{
	Use:          "parse [utterance]",
	Short:        "Print the structured command for an utterance",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := intent.ParseWeekdayPolicy(parseWeekday)
		if err != nil {
			return err
		}

		parsed := intent.New(intent.WithWeekdayPolicy(policy)).Parse(strings.Join(args, " "))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseWeekday, "weekday", "next-week", "how a bare weekday equal to today resolves: next-week or same-day")
	rootCmd.AddCommand(parseCmd)
}
