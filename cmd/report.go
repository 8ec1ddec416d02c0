package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/report-cli/internal/config"
	"github.com/sells-group/report-cli/internal/report"
	"github.com/sells-group/report-cli/internal/window"
	"github.com/sells-group/report-cli/pkg/hubspot"
)

var (
	reportInput string
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the daily activity snapshot for the current window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		in, err := resolveInput(reportInput)
		if err != nil {
			return err
		}

		client, err := buildClient(in)
		if err != nil {
			return err
		}

		win := window.Compute(time.Now())
		snap, err := report.New(client, in, win, cfg.Report.Concurrency).Run(ctx)
		if err != nil {
			return eris.Wrap(err, "build report")
		}

		out := os.Stdout
		if reportOut != "" {
			f, err := os.Create(reportOut)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

// resolveInput loads the run input from a payload file when given, falling
// back to the operator configuration.
func resolveInput(path string) (*config.Input, error) {
	if path == "" {
		return config.FromConfig(cfg), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read input payload")
	}
	in, err := config.ParseInput(data)
	if err != nil {
		return nil, eris.Wrap(err, "parse input payload")
	}
	if in.APIKey == "" {
		in.APIKey = cfg.HubSpot.Token
	}
	return in, nil
}

// buildClient constructs the HubSpot client from the run input and the
// operator configuration.
func buildClient(in *config.Input) (hubspot.Client, error) {
	if in.APIKey == "" {
		return nil, eris.New("hubspot api key is required")
	}

	zap.L().Debug("hubspot client configured",
		zap.String("base_url", cfg.HubSpot.BaseURL),
		zap.Int("page_limit", cfg.HubSpot.PageLimit),
	)

	return hubspot.NewClient(in.APIKey,
		hubspot.WithBaseURL(cfg.HubSpot.BaseURL),
		hubspot.WithPageLimit(cfg.HubSpot.PageLimit),
		hubspot.WithMaxAttempts(cfg.HubSpot.MaxAttempts),
		hubspot.WithRequestDelay(time.Duration(cfg.HubSpot.RequestDelayMs)*time.Millisecond),
	), nil
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "", "path to a JSON input payload (default: operator config)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write the snapshot to this file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
