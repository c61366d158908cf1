// =============================================================================
// CSV Sales Watcher - Watch Command
// =============================================================================
//
// COMMAND USAGE:
//   saleswatch watch [flags]
//
// PIPELINE:
//   1. Load configuration and open the log
//   2. Load every <YYYY-MM-DD>.csv file of the watched directory
//   3. Subscribe to filesystem events and apply them to the store
//   4. Optionally serve the report API and run the scheduled export
//   5. On SIGINT/SIGTERM, stop the event source after the event being
//      handled has been applied
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/csv-sales-watcher/internal/api"
	"github.com/ginjaninja78/csv-sales-watcher/internal/ingest"
	"github.com/ginjaninja78/csv-sales-watcher/internal/scheduler"
)

// watchCmd represents the 'watch' command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Load the watched directory and keep the store in sync with it",
	Long: `The watch command loads every daily sales file of the watched directory
into memory and then follows the directory:

  - a created file is loaded unless its date is already present
  - a modified file replaces its date
  - a deleted file, or a file renamed away from .csv, removes its date

A file that fails to parse is logged and skipped; the previous content of its
date is kept. The report API (http.enabled) and the scheduled export
(export.enabled) run alongside the watcher.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch runs the watcher until a termination signal arrives.
func runWatch(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.logger.WithField("component", "watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var source ingest.EventSource
	src, err := ingest.NewFSNotifySource(a.cfg.WatchDir, a.logger)
	if err != nil {
		log.WithError(err).Warn("cannot watch directory, no changes will be picked up")
	} else {
		source = src
		defer src.Close()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (%d days loaded). Press Ctrl+C to stop.\n", a.cfg.WatchDir, a.store.Len())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ingest.Run(gctx, source, a.handler, a.logger)
	})

	if a.cfg.HTTP.Enabled {
		srv := api.New(a.cfg.HTTP, a.reports, a.metrics.Handler(), a.logger)
		fmt.Fprintf(out, "Serving reports on %s\n", a.cfg.HTTP.Addr)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if a.cfg.Export.Enabled {
		job := scheduler.NewExportJob(a.cfg.Export, a.cfg.OutputDir, a.reports, a.logger)
		g.Go(func() error {
			return job.Run(gctx)
		})
	}

	err = g.Wait()
	log.Info("watcher stopped")
	fmt.Fprintln(out, "Stopped.")
	return err
}
