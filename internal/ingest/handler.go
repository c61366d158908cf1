// Package ingest keeps a key/value store in sync with the CSV files of one
// watched directory.
//
// The Handler is generic over the store key K, the per-row key I, the decoded
// row type T and the stored value V. It is given a function deriving K from a
// file path and a function folding the parsed rows into V; it alone decides
// when the store is mutated:
//
//	bootstrap  every eligible file is parsed and stored, overwriting
//	created    skipped when the key is already present
//	modified   always re-parsed and overwritten; a non-.csv path removes the key
//	deleted    the key is removed, or the event is a logged no-op
//
// Failures never leave the handler. A file that cannot be keyed or parsed is
// logged and skipped, and the store keeps its last good value for that key.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/csv-sales-watcher/internal/logging"
	"github.com/ginjaninja78/csv-sales-watcher/pkg/utils"
)

// DefaultExtension is the suffix of tracked files. Matching is case-sensitive.
const DefaultExtension = ".csv"

// Event names and results reported to the Observer.
const (
	EventBootstrap = "bootstrap"

	ResultStored  = "stored"
	ResultUpdated = "updated"
	ResultRemoved = "removed"
	ResultSkipped = "skipped"
	ResultIgnored = "ignored"
	ResultMissing = "missing"
	ResultFailed  = "failed"
)

// Parser parses one file into rows keyed by I.
type Parser[I comparable, T any] interface {
	Parse(path string) (map[I]T, error)
}

// Store is the part of the store the handler mutates.
type Store[K comparable, V any] interface {
	Has(key K) bool
	Set(key K, value V) bool
	Delete(key K) bool
	Len() int
}

// Observer receives ingestion outcomes, typically to export metrics.
type Observer interface {
	ObserveEvent(event, result string)
	ObserveParse(result string, elapsed time.Duration)
	SetStoreSize(n int)
}

// KeyError reports a path whose store key could not be derived.
type KeyError struct {
	Path string
	Err  error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("cannot derive key from %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// =============================================================================
// OPTIONS
// =============================================================================

type options struct {
	logger    logrus.FieldLogger
	observer  Observer
	extension string
}

// Option configures a Handler.
type Option func(*options)

// WithLogger sets the handler's logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver reports every outcome to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithExtension changes the tracked file suffix.
func WithExtension(ext string) Option {
	return func(o *options) { o.extension = ext }
}

type nopObserver struct{}

func (nopObserver) ObserveEvent(string, string)        {}
func (nopObserver) ObserveParse(string, time.Duration) {}
func (nopObserver) SetStoreSize(int)                   {}

// =============================================================================
// HANDLER
// =============================================================================

// Handler bridges filesystem events to a Store.
type Handler[K comparable, I comparable, T any, V any] struct {
	dir         string
	store       Store[K, V]
	parser      Parser[I, T]
	keyFromPath func(path string) (K, error)
	valueOf     func(records map[I]T) V

	extension string
	logger    logrus.FieldLogger
	observer  Observer

	// mu serialises mutations so events apply one at a time.
	mu sync.Mutex
}

// NewHandler creates a handler for dir. It does not scan the directory; call
// Bootstrap for that.
func NewHandler[K comparable, I comparable, T any, V any](
	dir string,
	store Store[K, V],
	parser Parser[I, T],
	keyFromPath func(path string) (K, error),
	valueOf func(records map[I]T) V,
	opts ...Option,
) *Handler[K, I, T, V] {
	o := options{extension: DefaultExtension}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}

	return &Handler[K, I, T, V]{
		dir:         dir,
		store:       store,
		parser:      parser,
		keyFromPath: keyFromPath,
		valueOf:     valueOf,
		extension:   o.extension,
		logger:      logging.Default(o.logger).WithField("component", "ingest"),
		observer:    o.observer,
	}
}

// Dir returns the watched directory.
func (h *Handler[K, I, T, V]) Dir() string {
	return h.dir
}

// Bootstrap loads every eligible file of the watched directory, overwriting
// existing entries, and returns the number of files stored. A missing watch
// directory is logged and leaves the store untouched.
func (h *Handler[K, I, T, V]) Bootstrap() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.logger.WithField("dir", h.dir)

	info, err := os.Stat(h.dir)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		log.WithError(err).Error("watch directory unavailable, starting with an empty store")
		h.observer.ObserveEvent(EventBootstrap, ResultMissing)
		return 0
	}

	files, err := utils.DiscoverFiles(h.dir, h.extension)
	if err != nil {
		log.WithError(err).Error("failed to list watch directory")
		h.observer.ObserveEvent(EventBootstrap, ResultFailed)
		return 0
	}

	loaded := 0
	for _, path := range files {
		// Stat follows symlinks so linked files are loaded too.
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		key, value, n, err := h.load(path)
		if err != nil {
			h.fileLogger(path).WithError(err).Error("bootstrap: skipping file")
			h.observer.ObserveEvent(EventBootstrap, ResultFailed)
			continue
		}

		h.store.Set(key, value)
		loaded++
		h.fileLogger(path).WithFields(logrus.Fields{"key": key, "entries": n}).Info("bootstrap: stored")
		h.observer.ObserveEvent(EventBootstrap, ResultStored)
	}

	h.observer.SetStoreSize(h.store.Len())
	log.WithField("files", loaded).Info("bootstrap complete")
	return loaded
}

// Handle dispatches an event to the matching On* method.
func (h *Handler[K, I, T, V]) Handle(ev Event) {
	switch ev.Kind {
	case Created:
		h.OnCreated(ev.Path, ev.IsDirectory)
	case Modified:
		h.OnModified(ev.Path, ev.IsDirectory)
	case Deleted:
		h.OnDeleted(ev.Path, ev.IsDirectory)
	default:
		h.logger.WithField("file", ev.Path).Warnf("unknown event kind %q", ev.Kind)
	}
}

// OnCreated stores a new file unless its key is already present.
func (h *Handler[K, I, T, V]) OnCreated(path string, isDir bool) {
	event := string(Created)
	if isDir || !h.tracked(path) {
		h.observer.ObserveEvent(event, ResultIgnored)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.fileLogger(path)

	key, err := h.key(path)
	if err != nil {
		log.WithError(err).Error("created: skipping file")
		h.observer.ObserveEvent(event, ResultFailed)
		return
	}
	log = log.WithField("key", key)

	if h.store.Has(key) {
		log.Info("created: key already present, skipping")
		h.observer.ObserveEvent(event, ResultSkipped)
		return
	}

	value, entries, err := h.parse(path)
	if err != nil {
		log.WithError(err).Error("created: failed to load file")
		h.observer.ObserveEvent(event, ResultFailed)
		return
	}

	h.store.Set(key, value)
	log.WithField("entries", entries).Info("created: stored")
	h.observer.ObserveEvent(event, ResultStored)
	h.observer.SetStoreSize(h.store.Len())
}

// OnModified re-parses a file and overwrites its entry. A modification
// reported for a path that no longer ends in the tracked extension removes
// the entry instead.
func (h *Handler[K, I, T, V]) OnModified(path string, isDir bool) {
	event := string(Modified)
	if isDir {
		h.observer.ObserveEvent(event, ResultIgnored)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.fileLogger(path)

	key, err := h.key(path)
	if err != nil {
		log.WithError(err).Error("modified: skipping file")
		h.observer.ObserveEvent(event, ResultFailed)
		return
	}
	log = log.WithField("key", key)

	if !h.tracked(path) {
		if h.store.Delete(key) {
			log.Info("modified: file is no longer tracked, removed")
			h.observer.ObserveEvent(event, ResultRemoved)
			h.observer.SetStoreSize(h.store.Len())
			return
		}
		h.observer.ObserveEvent(event, ResultIgnored)
		return
	}

	value, entries, err := h.parse(path)
	if err != nil {
		log.WithError(err).Error("modified: failed to load file, keeping previous entry")
		h.observer.ObserveEvent(event, ResultFailed)
		return
	}

	result := ResultStored
	if h.store.Set(key, value) {
		result = ResultUpdated
	}
	log.WithField("entries", entries).Infof("modified: %s", result)
	h.observer.ObserveEvent(event, result)
	h.observer.SetStoreSize(h.store.Len())
}

// OnDeleted removes the entry of a deleted file.
func (h *Handler[K, I, T, V]) OnDeleted(path string, isDir bool) {
	event := string(Deleted)
	if isDir || !h.tracked(path) {
		h.observer.ObserveEvent(event, ResultIgnored)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.fileLogger(path)

	key, err := h.key(path)
	if err != nil {
		log.WithError(err).Error("deleted: skipping file")
		h.observer.ObserveEvent(event, ResultFailed)
		return
	}
	log = log.WithField("key", key)

	if !h.store.Delete(key) {
		log.Warn("deleted: key not present, nothing to remove")
		h.observer.ObserveEvent(event, ResultMissing)
		return
	}

	log.Info("deleted: removed")
	h.observer.ObserveEvent(event, ResultRemoved)
	h.observer.SetStoreSize(h.store.Len())
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler[K, I, T, V]) tracked(path string) bool {
	return strings.HasSuffix(path, h.extension)
}

func (h *Handler[K, I, T, V]) fileLogger(path string) logrus.FieldLogger {
	return h.logger.WithField("file", filepath.Base(path))
}

func (h *Handler[K, I, T, V]) key(path string) (K, error) {
	key, err := h.keyFromPath(path)
	if err != nil {
		var zero K
		return zero, &KeyError{Path: path, Err: err}
	}
	return key, nil
}

// parse parses path and folds its rows into a value.
func (h *Handler[K, I, T, V]) parse(path string) (V, int, error) {
	start := time.Now()
	records, err := h.parser.Parse(path)
	if err != nil {
		h.observer.ObserveParse(ResultFailed, time.Since(start))
		var zero V
		return zero, 0, err
	}
	h.observer.ObserveParse(ResultStored, time.Since(start))
	return h.valueOf(records), len(records), nil
}

// load derives the key of path and parses it.
func (h *Handler[K, I, T, V]) load(path string) (K, V, int, error) {
	key, err := h.key(path)
	if err != nil {
		var zeroV V
		return key, zeroV, 0, err
	}
	value, entries, err := h.parse(path)
	return key, value, entries, err
}
