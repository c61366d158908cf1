package ingest

import (
	"os"

	"github.com/fsnotify/fsnotify"
)

// EventKind is the kind of change a notification reports.
type EventKind string

const (
	Created  EventKind = "created"
	Modified EventKind = "modified"
	Deleted  EventKind = "deleted"
)

// Event is one filesystem notification for a path in the watched directory.
type Event struct {
	Path        string
	Kind        EventKind
	IsDirectory bool
}

// FromFSNotify maps an fsnotify event onto an Event. Create is created,
// Write is modified, Remove and Rename (reported for the old name) are
// deleted. Chmod-only events are dropped and ok is false.
func FromFSNotify(ev fsnotify.Event) (Event, bool) {
	var kind EventKind
	switch {
	case ev.Has(fsnotify.Create):
		kind = Created
	case ev.Has(fsnotify.Write):
		kind = Modified
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		kind = Deleted
	default:
		return Event{}, false
	}

	out := Event{Path: ev.Name, Kind: kind}
	if kind != Deleted {
		if info, err := os.Stat(ev.Name); err == nil {
			out.IsDirectory = info.IsDir()
		}
	}
	return out, true
}
