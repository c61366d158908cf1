package ingest

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/csv-sales-watcher/internal/logging"
)

// EventSource delivers notifications for one directory. Both channels are
// closed once the source has stopped.
type EventSource interface {
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}

// FSNotifySource is an EventSource backed by fsnotify.
type FSNotifySource struct {
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	logger  logrus.FieldLogger
}

// NewFSNotifySource starts watching dir. Subdirectories are not watched.
func NewFSNotifySource(dir string, logger logrus.FieldLogger) (*FSNotifySource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	s := &FSNotifySource{
		watcher: watcher,
		events:  make(chan Event),
		errors:  make(chan error),
		done:    make(chan struct{}),
		logger:  logging.Default(logger).WithField("component", "fsnotify"),
	}
	s.wg.Add(1)
	go s.forward()
	return s, nil
}

func (s *FSNotifySource) Events() <-chan Event { return s.events }
func (s *FSNotifySource) Errors() <-chan error { return s.errors }

// Close stops the watcher and waits for the forwarding goroutine to exit.
func (s *FSNotifySource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.watcher.Close()
		s.wg.Wait()
	})
	return err
}

func (s *FSNotifySource) forward() {
	defer s.wg.Done()
	defer close(s.events)
	defer close(s.errors)

	for {
		select {
		case <-s.done:
			return

		case raw, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			ev, ok := FromFSNotify(raw)
			if !ok {
				s.logger.WithField("file", raw.Name).Debugf("ignoring %s", raw.Op)
				continue
			}
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			select {
			case s.errors <- err:
			case <-s.done:
				return
			}
		}
	}
}
