package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-sales-watcher/internal/store"
)

type chanSource struct {
	events chan Event
	errs   chan error
}

func newChanSource() *chanSource {
	return &chanSource{events: make(chan Event), errs: make(chan error)}
}

func (s *chanSource) Events() <-chan Event { return s.events }
func (s *chanSource) Errors() <-chan error { return s.errs }
func (s *chanSource) Close() error         { return nil }

type recordingHandler struct {
	mu     sync.Mutex
	events []Event
}

func (h *recordingHandler) Handle(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

func (h *recordingHandler) snapshot() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.events...)
}

func TestRunDeliversEventsInOrder(t *testing.T) {
	src := newChanSource()
	h := &recordingHandler{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, src, h, nil) }()

	src.events <- Event{Path: "a.csv", Kind: Created}
	src.errs <- errors.New("queue overflow")
	src.events <- Event{Path: "a.csv", Kind: Deleted}

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []Event{
		{Path: "a.csv", Kind: Created},
		{Path: "a.csv", Kind: Deleted},
	}, h.snapshot())
}

func TestRunReturnsWhenSourceCloses(t *testing.T) {
	src := newChanSource()
	close(src.errs)
	close(src.events)

	err := Run(context.Background(), src, &recordingHandler{}, nil)
	assert.NoError(t, err)
}

func TestRunWithoutSourceWaitsForContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.NoError(t, Run(ctx, nil, &recordingHandler{}, nil))
}

func TestFromFSNotify(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "2025-07-05.csv")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name   string
		ev     fsnotify.Event
		want   Event
		wantOK bool
	}{
		{name: "create", ev: fsnotify.Event{Name: file, Op: fsnotify.Create}, want: Event{Path: file, Kind: Created}, wantOK: true},
		{name: "write", ev: fsnotify.Event{Name: file, Op: fsnotify.Write}, want: Event{Path: file, Kind: Modified}, wantOK: true},
		{name: "remove", ev: fsnotify.Event{Name: file, Op: fsnotify.Remove}, want: Event{Path: file, Kind: Deleted}, wantOK: true},
		{name: "rename", ev: fsnotify.Event{Name: file, Op: fsnotify.Rename}, want: Event{Path: file, Kind: Deleted}, wantOK: true},
		{name: "chmod", ev: fsnotify.Event{Name: file, Op: fsnotify.Chmod}},
		{name: "directory", ev: fsnotify.Event{Name: dir, Op: fsnotify.Create}, want: Event{Path: dir, Kind: Created, IsDirectory: true}, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromFSNotify(tt.ev)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestWatchDirectoryEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("filesystem notifications")
	}

	dir := t.TempDir()
	st := store.NewSalesStore()
	h, err := NewSalesHandler(dir, st, salesSettings())
	require.NoError(t, err)

	src, err := NewFSNotifySource(dir, nil)
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, src, h, nil) }()

	path := writeSales(t, dir, "2025-07-05.csv", "09:00;150;Widget A;East\n")
	require.Eventually(t, func() bool {
		day, ok := st.Get(july5)
		return ok && day.Len() == 1
	}, 5*time.Second, 20*time.Millisecond)

	writeSales(t, dir, "2025-07-05.csv", "09:00;150;Widget A;East\n10:00;150;Widget B;North\n")
	require.Eventually(t, func() bool {
		day, ok := st.Get(july5)
		return ok && day.Len() == 2
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Rename(path, filepath.Join(dir, "2025-07-05.bak")))
	require.Eventually(t, func() bool {
		return !st.Has(july5)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, src.Close())
}

func TestNewFSNotifySourceMissingDirectory(t *testing.T) {
	_, err := NewFSNotifySource(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}
