package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler receives the result of a config reload. On parse or
// validation failure err is set and the previous settings stay in
// effect; the handler decides how to surface the problem.
type ReloadHandler func(s Settings, err error)

// Watcher reloads a config file when it changes on disk.
//
// It watches the file's directory rather than the file itself, because
// editors that save via rename replace the inode and a direct watch
// would go quiet after the first save.
type Watcher struct {
	path    string
	handler ReloadHandler
	fsw     *fsnotify.Watcher

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	debounce time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadDebounce sets the quiet period before a reload fires.
func WithReloadDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// NewWatcher starts watching path and calls handler after each settled
// change. The initial load is the caller's job; the watcher only
// reports subsequent changes.
func NewWatcher(path string, handler ReloadHandler, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		handler:  handler,
		fsw:      fsw,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops the watcher. Pending debounced reloads are cancelled; a
// handler call already in flight may still complete.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.schedule()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient on most platforms; the
			// next successful event still triggers a reload.
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Name != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

// schedule arms the debounce timer, restarting it on every event so the
// reload fires once per burst.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq++
	currentSeq := w.seq
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.seq != currentSeq {
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		w.handler(Load(w.path))
	})
}
