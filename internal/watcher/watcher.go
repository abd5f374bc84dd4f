// Package watcher provides file system watching with debouncing for a git
// directory. It signals when HEAD, the index, or any ref changes so the
// browser can refresh its cached history.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/giv/internal/log"
)

// Watcher monitors a git directory for changes and sends notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	gitDir    string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	GitDir   string
	Debounce time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(gitDir string) Config {
	return Config{
		GitDir:   gitDir,
		Debounce: 250 * time.Millisecond,
	}
}

// New creates a new git directory watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		gitDir:    filepath.Clean(cfg.GitDir),
		debounce:  cfg.Debounce,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the git directory and every directory under refs/.
// Returns a channel that receives a signal when repository state changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.gitDir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.gitDir, err)
	}

	refs := filepath.Join(w.gitDir, "refs")
	err := filepath.WalkDir(refs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// refs/ may be missing in a bare-bones repository.
			return filepath.SkipDir
		}
		if d.IsDir() {
			return w.add(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug(log.CatWatcher, "Watching git directory", "dir", w.gitDir, "debounce", w.debounce)
	go w.loop()

	return w.onChange, nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) add(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// New ref namespaces (refs/heads/feature/...) need their own watch.
			if event.Has(fsnotify.Create) && w.underRefs(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.add(event.Name); err != nil {
						log.ErrorErr(log.CatWatcher, "Failed to watch new ref directory", err)
					}
				}
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			// Reset debounce timer
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			// Debounce period elapsed, send notification
			log.Debug(log.CatWatcher, "Repository changed")
			select {
			case w.onChange <- struct{}{}:
			default:
				// Channel full, notification already pending
			}
			timerC = nil

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watcher error", err)
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	// Git renames the lock onto the real file when it commits an update.
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}

	if w.underRefs(event.Name) {
		return true
	}
	if filepath.Dir(event.Name) != w.gitDir {
		return false
	}
	switch filepath.Base(event.Name) {
	case "HEAD", "index", "packed-refs":
		return true
	}
	return false
}

func (w *Watcher) underRefs(path string) bool {
	rel, err := filepath.Rel(filepath.Join(w.gitDir, "refs"), path)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
