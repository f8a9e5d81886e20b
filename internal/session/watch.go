package session

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// Watcher reports debounced change notifications for a single file.
// Editors often write in bursts (truncate, write, chmod, rename); the
// debounce window collapses each burst into one notification.
type Watcher struct {
	mu sync.Mutex

	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration

	events chan struct{}
	errs   chan error

	closed  bool
	closeCh chan struct{}
	done    sync.WaitGroup
}

// NewWatcher watches the given file, emitting on Events at most once
// per debounce window. Watching the parent directory rather than the
// file itself survives editors that replace the file on save.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		path:     absPath,
		debounce: debounce,
		events:   make(chan struct{}, 1),
		errs:     make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	w.done.Add(1)
	go w.processLoop()
	return w, nil
}

// Events returns the notification channel.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher. A pending debounced notification is dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.done.Wait()
	close(w.events)
	close(w.errs)
	return w.watcher.Close()
}

// processLoop folds raw fsnotify events into debounced notifications.
func (w *Watcher) processLoop() {
	defer w.done.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-fire:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.events <- struct{}{}:
			default:
				// Pending notification already queued.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// relevant reports whether the event concerns the watched file and a
// content-affecting operation.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}
