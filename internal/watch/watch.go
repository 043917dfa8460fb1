package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
)

const DefaultDebounce = 100 * time.Millisecond

// Event is posted to the screen when the watched file changes on disk.
type Event struct {
	tcell.EventTime
	Path    string
	Removed bool
}

// Poster is satisfied by tcell.Screen.
type Poster interface {
	PostEvent(ev tcell.Event) error
}

// Watcher reports changes to a single file. The parent directory is
// watched so that files replaced by rename are still seen.
type Watcher struct {
	fw        *fsnotify.Watcher
	path      string
	poster    Poster
	debounce  time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

func New(path string, poster Poster, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fw:       fw,
		path:     abs,
		poster:   poster,
		debounce: debounce,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := false
	removed := false

	for {
		select {
		case <-w.done:
			timer.Stop()
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			removed = event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			pending = true
			timer.Reset(w.debounce)
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			ev := &Event{Path: w.path, Removed: removed}
			ev.SetEventNow()
			_ = w.poster.PostEvent(ev)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fw.Close()
	})
	return err
}
