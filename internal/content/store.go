package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Store holds the current content. Readers always see a complete, validated
// value; a reload swaps the pointer. Views keep the content they were built
// with, so a reload only affects views created afterwards.
type Store struct {
	current atomic.Pointer[Content]
	logger  *slog.Logger

	// OnReload is called after a successful reload, if set
	OnReload func(*Content)
}

// NewStore creates a store holding c
func NewStore(c *Content, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger}
	s.current.Store(c)
	return s
}

// Current returns the content in effect
func (s *Store) Current() *Content {
	return s.current.Load()
}

// Reload reads path and swaps it in. On error the previous content stays.
func (s *Store) Reload(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	s.current.Store(c)
	if s.OnReload != nil {
		s.OnReload(c)
	}
	return nil
}

// Watch reloads path whenever it changes until ctx is done. The parent
// directory is watched so editors that replace the file by renaming are
// picked up too.
func (s *Store) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	defer debounce.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			debounce.Reset(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher error", "error", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := s.Reload(path); err != nil {
				s.logger.Error("content reload failed, keeping previous content", "path", path, "error", err)
				continue
			}
			s.logger.Info("content reloaded", "path", path)
		}
	}
}
