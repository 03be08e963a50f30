// Package watch notices images added to the source folder during a session.
package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"keysort/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileEvent is a new file detected in a watched directory.
type FileEvent struct {
	Path      string
	Info      os.FileInfo
	Timestamp time.Time
	Op        fsnotify.Op
}

// Filter decides whether a path is worth reporting.
type Filter func(path string) bool

// Watcher reports files appearing in the source folder so they can be
// queued while a session runs.
type Watcher struct {
	directories []string
	filter      Filter

	events   chan FileEvent
	stopChan chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
}

// New creates a watcher. A nil filter reports every regular file.
func New(filter Filter) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		filter:    filter,
		events:    make(chan FileEvent, 16),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
	}, nil
}

// AddDirectory starts watching dir.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Events delivers new files. It is closed by Stop.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Start runs the event loop in a goroutine.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	stop := w.stopChan
	w.mutex.Unlock()

	go w.loop(stop)
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// renames into the folder arrive as Create
			if !event.Op.Has(fsnotify.Create) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				if !os.IsNotExist(err) {
					log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
				}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			if w.filter != nil && !w.filter(event.Name) {
				continue
			}

			w.send(stop, FileEvent{Path: event.Name, Info: info, Timestamp: time.Now(), Op: event.Op})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// send delivers ev without blocking. The read lock keeps Stop from closing
// the channel mid-send.
func (w *Watcher) send(stop <-chan struct{}, ev FileEvent) {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	select {
	case <-stop:
		return
	default:
	}

	select {
	case w.events <- ev:
	default:
		log.LogWithFields(log.F("file", ev.Path)).Warn("Event channel is full, dropped event")
	}
}

// Stop halts the watcher and closes the event channel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
	close(w.events)
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the watched directories.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, len(w.directories))
	copy(out, w.directories)
	return out
}
