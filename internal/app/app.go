package app

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qhex/internal/config"
	"github.com/kobzarvs/qhex/internal/logger"
	"github.com/kobzarvs/qhex/internal/session"
	"github.com/kobzarvs/qhex/internal/viewer"
	"github.com/kobzarvs/qhex/internal/watch"
)

// App is the top-level runtime for qhex.
type App struct {
	args []string

	cfg      config.Config
	screen   tcell.Screen
	view     *viewer.Viewer
	sessions *session.Manager
	watcher  *watch.Watcher
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	if err := logger.Init(logger.DebugEnabled()); err == nil {
		defer logger.Close()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		return err
	}
	a.cfg = cfg

	v, err := viewer.New(cfg)
	if err != nil {
		return err
	}
	a.view = v

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()
	a.screen = s

	if cfg.View.RestoreEnabled() {
		sm, err := session.NewManager()
		if err != nil {
			logger.Warn("session disabled", "error", err)
		} else {
			a.sessions = sm
			defer func() {
				if err := sm.Stop(); err != nil {
					logger.Warn("session save failed", "error", err)
				}
			}()
		}
	}
	defer a.closeWatcher()

	if path := a.startPath(); path != "" {
		a.open(path)
	}

	v.Render(s)
	for {
		ev := s.PollEvent()
		if ev == nil {
			return nil
		}
		if a.handleEvent(ev) {
			return nil
		}
		v.Render(s)
	}
}

// handleEvent dispatches one event and records the viewer position in the
// session. It reports whether the viewer asked to quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	v := a.view
	switch ev := ev.(type) {
	case *tcell.EventKey:
		v.HandleKey(ev)
	case *tcell.EventMouse:
		v.HandleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	case *watch.Event:
		a.handleFileChange(ev)
	}
	if path, ok := v.ConsumeOpenRequest(); ok {
		a.open(path)
	}
	a.saveState()
	return v.ShouldQuit()
}

// startPath returns the file named on the command line, or the last file
// of the previous session when none was given.
func (a *App) startPath() string {
	if len(a.args) > 0 {
		return a.args[0]
	}
	if a.sessions == nil {
		return ""
	}
	last := a.sessions.ActiveFile()
	if last == "" {
		return ""
	}
	if _, err := os.Stat(last); err != nil {
		return ""
	}
	return last
}

// open switches the viewer to path, saving where we were in the previous
// file and restoring where we left the new one.
func (a *App) open(path string) {
	a.saveState()
	a.closeWatcher()

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := a.view.Open(path); err != nil {
		logger.Error("open failed", "path", path, "error", err)
		return
	}
	if a.sessions != nil {
		if st, ok := a.sessions.FileState(path); ok && a.view.RestoreState(st) {
			logger.Debug("session restored", "path", path, "cursor", st.Cursor)
		}
	}
	if a.cfg.View.WatchEnabled() {
		w, err := watch.New(path, a.screen, watch.DefaultDebounce)
		if err != nil {
			logger.Warn("watch failed", "path", path, "error", err)
			return
		}
		a.watcher = w
	}
}

func (a *App) handleFileChange(ev *watch.Event) {
	if ev.Path != a.view.Filename() {
		return
	}
	if ev.Removed {
		logger.Info("file removed", "path", ev.Path)
		a.view.SetStatusMessage("file removed on disk")
		return
	}
	logger.Info("file changed, reloading", "path", ev.Path)
	if err := a.view.Reload(); err != nil {
		logger.Error("reload failed", "path", ev.Path, "error", err)
	}
}

func (a *App) saveState() {
	path := a.view.Filename()
	if a.sessions == nil || path == "" {
		return
	}
	st := a.view.State()
	if st.Size == 0 {
		return
	}
	if prev, ok := a.sessions.FileState(path); ok && prev == st && a.sessions.ActiveFile() == path {
		return
	}
	a.sessions.SetFileState(path, st)
}

func (a *App) closeWatcher() {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Close(); err != nil {
		logger.Warn("watch close failed", "error", err)
	}
	a.watcher = nil
}
