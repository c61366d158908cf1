package ingest

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/csv-sales-watcher/internal/logging"
)

// EventHandler applies one event.
type EventHandler interface {
	Handle(ev Event)
}

// Run feeds events from source to handler until ctx is cancelled or the
// source closes. Events are handled one at a time on the calling goroutine,
// so once Run returns no handler call is in flight. A nil source only waits
// for ctx.
func Run(ctx context.Context, source EventSource, handler EventHandler, logger logrus.FieldLogger) error {
	logger = logging.Default(logger).WithField("component", "watcher")

	if source == nil {
		<-ctx.Done()
		return nil
	}

	events := source.Events()
	errs := source.Errors()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping watcher")
			return nil

		case ev, ok := <-events:
			if !ok {
				logger.Info("event source closed")
				return nil
			}
			logger.WithFields(logrus.Fields{"file": ev.Path, "event": ev.Kind}).Debug("event received")
			handler.Handle(ev)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.WithError(err).Warn("watch error")
		}
	}
}
