package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the stat cadence when polling mode is active.
const DefaultPollInterval = 2 * time.Second

var (
	// ErrStoreRemoved is reported when the watched store file disappears.
	ErrStoreRemoved = errors.New("watched store file was removed")
	// ErrAlreadyStarted is returned by Start on a running watcher.
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a StoreWatcher.
type Option func(*StoreWatcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *StoreWatcher) {
		w.debounce = d
	}
}

// WithPollInterval sets the stat cadence for polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *StoreWatcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets a callback invoked on each debounced change.
func WithOnChange(fn func()) Option {
	return func(w *StoreWatcher) {
		w.onChange = fn
	}
}

// WithOnError sets a callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *StoreWatcher) {
		w.onError = fn
	}
}

// WithForcePoll skips fsnotify and polls from the start.
func WithForcePoll(force bool) Option {
	return func(w *StoreWatcher) {
		w.forcePoll = force
	}
}

// StoreWatcher watches the timer store file for writes by other processes.
// It prefers fsnotify and falls back to mtime polling when inotify is
// unavailable. The parent directory is watched rather than the file itself
// so that atomic rename writes are seen.
type StoreWatcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	onChange     func()
	onError      func(error)
	forcePoll    bool

	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	polling   bool
	lastMtime time.Time
	lastSize  int64

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// NewStoreWatcher creates a watcher for the store file at path.
func NewStoreWatcher(path string, opts ...Option) (*StoreWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &StoreWatcher{
		path:         absPath,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		onChange:     func() {},
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)

	return w, nil
}

// Start begins watching. The watcher stops when ctx is cancelled or Stop is
// called.
func (w *StoreWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(ctx)

	// The file may not exist yet, a zero mtime means "never seen".
	if info, err := os.Stat(w.path); err == nil {
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	} else {
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}

	w.polling = w.forcePoll || envBool("STINT_FORCE_POLL")
	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.polling = true
		} else if err := fsw.Add(filepath.Dir(w.path)); err != nil {
			fsw.Close()
			w.polling = true
		} else {
			w.fsWatcher = fsw
			go w.watchFsnotify(w.ctx, fsw)
		}
	}
	if w.polling {
		go w.watchPolling(w.ctx)
	}

	w.started = true
	return nil
}

// Stop cancels watching. The Changed channel stays open so pending readers
// are not woken with a spurious close.
func (w *StoreWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// Polling reports whether the watcher is in polling mode.
func (w *StoreWatcher) Polling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// Changed returns a channel receiving one signal per debounced change.
func (w *StoreWatcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the absolute watched path.
func (w *StoreWatcher) Path() string {
	return w.path
}

func (w *StoreWatcher) watchFsnotify(ctx context.Context, fsw *fsnotify.Watcher) {
	target := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrStoreRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *StoreWatcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if os.IsNotExist(err) {
					w.mu.Lock()
					existed := !w.lastMtime.IsZero()
					// Back to "never seen" so removal is reported once
					// and a recreated file shows up as a change.
					w.lastMtime = time.Time{}
					w.lastSize = 0
					w.mu.Unlock()
					if existed {
						w.onError(ErrStoreRemoved)
					}
				} else {
					w.onError(err)
				}
				continue
			}

			w.mu.Lock()
			changed := info.ModTime().After(w.lastMtime) || info.Size() != w.lastSize
			if changed {
				w.lastMtime = info.ModTime()
				w.lastSize = info.Size()
			}
			w.mu.Unlock()

			if changed {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

func (w *StoreWatcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
