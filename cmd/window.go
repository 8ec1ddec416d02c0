package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/report-cli/internal/window"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Print the reporting window a run started now would cover",
	RunE: func(cmd *cobra.Command, args []string) error {
		win := window.Compute(time.Now())

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"start":        win.Start.Format(time.RFC3339Nano),
			"end":          win.End.Format(time.RFC3339Nano),
			"start_millis": win.StartMillis(),
			"end_millis":   win.EndMillis(),
		})
	},
}

func init() {
	rootCmd.AddCommand(windowCmd)
}
