package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/report-cli/internal/config"
	"github.com/sells-group/report-cli/internal/report"
	"github.com/sells-group/report-cli/internal/window"
)

var servePort int

// runFunc executes one report run for the given input. A nil input means the
// caller supplied no payload and the operator configuration applies.
type runFunc func(ctx context.Context, in *config.Input) (*report.Snapshot, error)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server that triggers report runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		run := func(ctx context.Context, in *config.Input) (*report.Snapshot, error) {
			if in == nil {
				in = config.FromConfig(cfg)
			} else if in.APIKey == "" {
				in.APIKey = cfg.HubSpot.Token
			}
			client, err := buildClient(in)
			if err != nil {
				return nil, err
			}
			win := window.Compute(time.Now())
			return report.New(client, in, win, cfg.Report.Concurrency).Run(ctx)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(run),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(run runFunc) http.Handler {
	mux := chi.NewRouter()

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.Post("/report/run", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, `{"error":"read request body"}`, http.StatusBadRequest)
			return
		}

		var in *config.Input
		if len(body) > 0 {
			in, err = config.ParseInput(body)
			if err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
		}

		snap, err := run(r.Context(), in)
		if err != nil {
			zap.L().Error("report run failed", zap.Error(err))
			http.Error(w, `{"error":"report run failed"}`, http.StatusBadGateway)
			return
		}

		zap.L().Info("report run complete",
			zap.String("run_id", snap.RunID),
			zap.Int("total_lead_allocate", snap.TotalLeadAllocate),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(snap)
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
