package site

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle folds editor save bursts (create + rename + write) into one
// reload.
const watchSettle = 200 * time.Millisecond

// Watch monitors the data and content files until the context is cancelled.
// Changes reload the document and content store, then broadcast a reload to
// connected browsers.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directories and filter by name: editors replace
	// files on save, which silently detaches a watch on the file itself.
	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range []string{s.cfg.DataPath, s.cfg.ContentPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	settle := time.NewTimer(time.Hour)
	settle.Stop()
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			dirty = true
			settle.Reset(watchSettle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "err", err)

		case <-settle.C:
			if !dirty {
				continue
			}
			dirty = false
			s.reloadAll()
		}
	}
}

func (s *Server) reloadAll() {
	if err := s.ReloadData(); err != nil {
		s.logger.Error("reload data failed", "err", err)
	}
	if err := s.content.Reload(); err != nil {
		s.logger.Error("reload content failed", "err", err)
	}
	s.logger.Info("files changed, reloading clients", "clients", s.hub.Count())
	s.hub.Broadcast("reload")
}
