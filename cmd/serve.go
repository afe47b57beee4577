package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/valuation-lab/rerate-sim/sim/api"
	"github.com/valuation-lab/rerate-sim/sim/batch"
	"github.com/valuation-lab/rerate-sim/sim/record"
	"github.com/valuation-lab/rerate-sim/sim/schedule"
)

var (
	// CLI flags for the HTTP API
	serveAddr        string   // Listen address
	serveOrigins     []string // CORS allowed origins (empty = any)
	serveDBPath      string   // SQLite recorder path
	servePresetsPath string   // Presets YAML file
	serveRelease     bool     // Run gin in release mode

	// Scheduled batches, recorded while the server runs
	scheduleSpec    string   // Cron spec with seconds field; empty disables
	schedulePresets []string // Presets run on every tick
	scheduleRuns    int      // Runs per scheduled batch
	scheduleSeed    int64    // Seed of the first tick
)

const shutdownTimeout = 10 * time.Second

// serveCmd exposes simulations over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		if serveRelease {
			gin.SetMode(gin.ReleaseMode)
		}
		handler, rec, closeRecorder, err := buildAPIHandler(cmd)
		if err != nil {
			logrus.Fatalf("serve: %v", err)
		}
		defer closeRecorder()

		addr := serveAddr
		if !cmd.Flags().Changed("addr") {
			addr = envOr(envAddr, serveAddr)
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           api.NewRouter(handler, splitOrigins(serveOrigins)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if scheduleSpec != "" {
			scheduler, err := newBatchScheduler(ctx, rec)
			if err != nil {
				logrus.Fatalf("serve: %v", err)
			}
			scheduler.Start()
			defer scheduler.Stop()
		}

		errCh := make(chan error, 1)
		go func() {
			logrus.Infof("listening on %s", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatalf("serve: %v", err)
			}
		case <-ctx.Done():
			logrus.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logrus.Errorf("shutdown: %v", err)
			}
		}
	},
}

// buildAPIHandler loads presets and opens the optional recorder.
// rec is nil when no database is configured; the close function is always safe to call.
func buildAPIHandler(cmd *cobra.Command) (h *api.Handler, rec record.Recorder, closeFn func(), err error) {
	presets, err := loadPresets(servePresetsPath)
	if err != nil {
		return nil, nil, func() {}, err
	}
	path := recorderPath(cmd, serveDBPath)
	if path == "" {
		return api.NewHandler(presets, nil), nil, func() {}, nil
	}
	sqliteRec, err := record.NewSQLiteRecorder(path)
	if err != nil {
		return nil, nil, func() {}, err
	}
	closeFn = func() {
		if err := sqliteRec.Close(); err != nil {
			logrus.Warnf("closing recorder: %v", err)
		}
	}
	return api.NewHandler(presets, sqliteRec), sqliteRec, closeFn, nil
}

// newBatchScheduler registers the --schedule job. It needs a recorder to be useful.
func newBatchScheduler(ctx context.Context, rec record.Recorder) (*schedule.Scheduler, error) {
	presets, err := loadPresets(servePresetsPath)
	if err != nil {
		return nil, err
	}
	bc := batch.BatchConfig{Seed: scheduleSeed, Runs: scheduleRuns}
	scheduler, err := schedule.NewScheduler(ctx, rec, presets, schedulePresets, bc)
	if err != nil {
		return nil, err
	}
	if err := scheduler.Register(scheduleSpec); err != nil {
		return nil, err
	}
	return scheduler, nil
}

func splitOrigins(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (default $"+envAddr+" or :8080)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origins", nil, "Comma-separated CORS origins (default: any)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Record API runs in this SQLite database (default $"+envDBPath+")")
	serveCmd.Flags().StringVar(&servePresetsPath, "presets-file", "", "Presets YAML file (default: built-in presets)")
	serveCmd.Flags().BoolVar(&serveRelease, "release", false, "Run the HTTP engine in release mode")
	serveCmd.Flags().StringVar(&scheduleSpec, "schedule", "", "Cron spec (with seconds) for recorded preset batches, e.g. \"0 0 * * * *\"; requires --db")
	serveCmd.Flags().StringSliceVar(&schedulePresets, "schedule-presets", []string{"reference"}, "Presets run by the scheduled batches")
	serveCmd.Flags().IntVar(&scheduleRuns, "schedule-runs", 1000, "Runs per scheduled batch")
	serveCmd.Flags().Int64Var(&scheduleSeed, "schedule-seed", 1, "Seed of the first scheduled batch; later ticks add one")
	rootCmd.AddCommand(serveCmd)
}
