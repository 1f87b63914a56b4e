// Package watch reruns documentation generation when project sources change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Config contains configuration for the watcher
type Config struct {
	// Dirs are the directories to watch, non-recursively
	Dirs []string

	// Extension filters events to files of one document type (e.g. ".tex")
	Extension string

	// Debounce is the time to wait after the last event before running
	Debounce time.Duration
}

// Watcher runs a callback once per burst of source changes
type Watcher struct {
	watcher *fsnotify.Watcher
	config  Config
	log     zerolog.Logger
}

// New creates a watcher over the configured directories
func New(config Config, log zerolog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	for _, dir := range config.Dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return &Watcher{watcher: w, config: config, log: log}, nil
}

// Close releases the underlying watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks until ctx is cancelled, calling run after every debounced burst
// of relevant events. A failing run is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, run func() error) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("source changed")
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn().Err(err).Msg("watcher error")

		case <-fire:
			fire = nil
			if err := run(); err != nil {
				w.log.Error().Err(err).Msg("generation failed, waiting for the next change")
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return w.config.Extension == "" || filepath.Ext(event.Name) == w.config.Extension
}
