package catalogue

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals when the catalogue file changes on disk. Hunter mode runs
// for long stretches; reloading on change keeps a hand-edited catalogue from
// being clobbered by the next persisted append.
type Watcher struct {
	fw   *fsnotify.Watcher
	path string
}

// NewWatcher watches the catalogue file at path. The watch is registered on
// the parent directory because editors replace files on save, which would
// orphan a watch held on the file itself.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{fw: fw, path: abs}, nil
}

// Events exposes the raw event stream for use in a select loop.
func (w *Watcher) Events() <-chan fsnotify.Event {
	return w.fw.Events
}

// Errors exposes the watcher error stream.
func (w *Watcher) Errors() <-chan error {
	return w.fw.Errors
}

// Relevant reports whether an event is a content change of the watched
// catalogue file. Directory watches also deliver events for sibling files
// and non-content ops (chmod), which callers must ignore.
func (w *Watcher) Relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return false
	}

	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return abs == w.path
}

// Close releases the underlying filesystem watch.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
