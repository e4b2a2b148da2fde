package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"taskman/internal/logutil"
)

// ErrWatcherClosed is returned by Next after Close.
var ErrWatcherClosed = errors.New("config watcher closed")

// Watcher reloads the config file whenever it is written.
type Watcher struct {
	path string
	fw   *fsnotify.Watcher
	log  *logutil.ComponentLogger
}

// Watch starts watching path. The parent directory is watched rather than
// the file so that editors which replace the file on save are still noticed.
func Watch(path string) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("no config path to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		path: filepath.Clean(path),
		fw:   fw,
		log:  logutil.NewLogger("config"),
	}, nil
}

// Next blocks until the file changes and loads cleanly, the watcher is
// closed, or ctx is done. Changes that fail to load are logged and skipped.
func (w *Watcher) Next(ctx context.Context) (Config, error) {
	for {
		select {
		case <-ctx.Done():
			return Config{}, ctx.Err()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return Config{}, ErrWatcherClosed
			}
			w.log.Warn("config watch error", "error", err)

		case e, ok := <-w.fw.Events:
			if !ok {
				return Config{}, ErrWatcherClosed
			}
			if filepath.Clean(e.Name) != w.path || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// A truncating write shows up before the new contents do.
			if info, err := os.Stat(w.path); err != nil || info.Size() == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.log.Warn("ignoring invalid config", "error", err)
				continue
			}
			w.log.Info("config reloaded", "path", w.path)
			return cfg, nil
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
