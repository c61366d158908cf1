package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
	"github.com/ginjaninja78/csv-sales-watcher/internal/ingest"
	"github.com/ginjaninja78/csv-sales-watcher/internal/logging"
	"github.com/ginjaninja78/csv-sales-watcher/internal/metrics"
	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
	"github.com/ginjaninja78/csv-sales-watcher/internal/service"
	"github.com/ginjaninja78/csv-sales-watcher/internal/store"
)

// app holds the components shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	logSink io.Closer
	metrics *metrics.Metrics
	store   *store.SalesStore
	handler *ingest.SalesHandler
	reports *report.Service
}

// newApp loads the configuration, opens the log and bootstraps the store
// from the watched directory.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, sink, err := logging.Setup(cfg, verbose)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	st := store.NewSalesStore()

	handler, err := ingest.NewSalesHandler(cfg.WatchDir, st, cfg.CSV,
		ingest.WithLogger(logger.WithField("component", "ingest")),
		ingest.WithObserver(m),
	)
	if err != nil {
		sink.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		logSink: sink,
		metrics: m,
		store:   st,
		handler: handler,
		reports: report.NewService(service.NewSalesService(st), report.WithObserver(m)),
	}, nil
}

// tables returns the tables selected by a kind name, or every table for
// "all".
func (a *app) tables(kind string) ([]report.Table, error) {
	if kind == "" || kind == "all" {
		return a.reports.All(), nil
	}
	k, err := report.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	t, err := a.reports.Build(k)
	if err != nil {
		return nil, err
	}
	return []report.Table{t}, nil
}

func (a *app) Close() error {
	if a.logSink == nil {
		return nil
	}
	return a.logSink.Close()
}
