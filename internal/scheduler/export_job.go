// Package scheduler runs the periodic report export.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
	"github.com/ginjaninja78/csv-sales-watcher/internal/export"
	"github.com/ginjaninja78/csv-sales-watcher/internal/logging"
	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
	"github.com/ginjaninja78/csv-sales-watcher/pkg/utils"
)

// Reports provides the tables to export.
type Reports interface {
	All() []report.Table
}

// ExportJob writes every report table into the output directory on a cron
// schedule.
type ExportJob struct {
	scheduler *gocron.Scheduler
	reports   Reports
	settings  config.ExportSettings
	outputDir string
	logger    logrus.FieldLogger

	mu              sync.Mutex
	running         bool
	lastStartedAt   time.Time
	lastCompletedAt time.Time
}

func NewExportJob(settings config.ExportSettings, outputDir string, reports Reports, logger logrus.FieldLogger) *ExportJob {
	logger = logging.Default(logger).WithField("component", "export")
	logger.WithFields(logrus.Fields{
		"cron":    settings.Cron,
		"formats": settings.Formats,
		"dir":     outputDir,
	}).Debug("export job configured")

	return &ExportJob{
		scheduler: gocron.NewScheduler(time.Local),
		reports:   reports,
		settings:  settings,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Start schedules the job and stops the scheduler once ctx is done. It is a
// no-op when exports are disabled.
func (j *ExportJob) Start(ctx context.Context) error {
	if !j.settings.Enabled {
		j.logger.Info("scheduled export disabled by configuration")
		return nil
	}

	_, err := j.scheduler.Cron(j.settings.Cron).Do(func() {
		if _, err := j.ExportNow(); err != nil {
			j.logger.WithError(err).Error("scheduled export failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule export %q: %w", j.settings.Cron, err)
	}

	j.logger.WithField("cron", j.settings.Cron).Info("starting scheduled export")
	j.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		j.logger.Info("stopping scheduled export")
		j.scheduler.Stop()
	}()

	return nil
}

// Run starts the job and blocks until ctx is done.
func (j *ExportJob) Run(ctx context.Context) error {
	if err := j.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// LastRun returns when the last export started and completed.
func (j *ExportJob) LastRun() (started, completed time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastStartedAt, j.lastCompletedAt
}

// ExportNow writes one file per report table and configured format, plus a
// summary log. Failed files are recorded in the summary and returned joined.
// A call made while another export runs is skipped.
func (j *ExportJob) ExportNow() (utils.ExportSummary, error) {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		j.logger.Warn("export already running, skipping")
		return utils.ExportSummary{}, nil
	}
	j.running = true
	j.lastStartedAt = time.Now()
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.lastCompletedAt = time.Now()
		j.mu.Unlock()
	}()

	summary := utils.ExportSummary{StartTime: time.Now()}

	if err := utils.EnsureDirectories(j.outputDir); err != nil {
		return summary, err
	}

	formats, err := j.formats()
	if err != nil {
		return summary, err
	}

	var errs []error
	for _, table := range j.reports.All() {
		for _, f := range formats {
			name := utils.GenerateOutputFileName(j.settings.FileNameFormat, f.Extension(),
				map[string]string{"report": string(table.Kind)})
			path := filepath.Join(j.outputDir, name)

			if err := export.WriteFile(path, f, table); err != nil {
				j.logger.WithError(err).WithField("file", name).Error("export failed")
				summary.FailedFiles = append(summary.FailedFiles, utils.FailedFileInfo{File: name, ErrorMessage: err.Error()})
				errs = append(errs, err)
				continue
			}
			summary.Files = append(summary.Files, name)
		}
	}
	summary.EndTime = time.Now()

	summaryPath, err := utils.WriteSummaryLog(summary, j.outputDir)
	if err != nil {
		errs = append(errs, err)
	}

	j.logger.WithFields(logrus.Fields{
		"files":   len(summary.Files),
		"failed":  len(summary.FailedFiles),
		"summary": summaryPath,
	}).Info("export complete")

	return summary, errors.Join(errs...)
}

func (j *ExportJob) formats() ([]export.Format, error) {
	names := j.settings.Formats
	if len(names) == 0 {
		names = []string{string(export.FormatXLSX)}
	}

	formats := make([]export.Format, 0, len(names))
	for _, n := range names {
		f, err := export.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}
