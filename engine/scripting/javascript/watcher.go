package javascript

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/abyss/engine/core"
)

// Watcher reports changes to a single script file. It watches the parent
// directory so editors that save by rename are still seen.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	target   string
	changes  chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup

	mutex    sync.Mutex
	isClosed bool
}

func NewWatcher(path string) (*Watcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(target)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		fsnotify: fsWatch,
		target:   target,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Changes receives one value per burst of writes; pending notifications
// coalesce until the loop reads them.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return errors.New("script watcher already closed")
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.fsnotify.Close()
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(e.Name)
			if err != nil || name != w.target {
				continue
			}
			if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
				select {
				case w.changes <- struct{}{}:
				default:
				}
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("script watcher: %s", err)

		case <-w.done:
			return
		}
	}
}
