// Package ingest discovers report scans on disk, either by walking a
// directory once or by watching it for new files.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/amara-nwosu/gene-report-reader/constants"
)

type WatchConfig struct {
	Roots       []string // directories to watch (recursive)
	AllowedExts map[string]struct{}
	InitialScan bool          // if true, walk roots and emit existing files first
	Debounce    time.Duration // coalesce rapid create/write bursts per path
}

// StartWatcher emits paths of report files as they appear under the roots.
// Both channels close when ctx is canceled.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no watch roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = constants.AllowedExtensions
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	addTree := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	}
	for _, root := range cfg.Roots {
		if err := addTree(root); err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer w.Close()

		if cfg.InitialScan {
			for _, root := range cfg.Roots {
				emitExisting(ctx, root, cfg.AllowedExts, evCh)
			}
		}

		// Per-path timers coalesce the write bursts editors and scanners
		// produce while a file is still being flushed. Timers signal on
		// fired; only this goroutine sends on evCh, so closing it cannot
		// race a late timer.
		fired := make(chan string, 256)
		pending := make(map[string]*time.Timer)
		defer func() {
			for _, t := range pending {
				t.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case path := <-fired:
				delete(pending, path)
				select {
				case evCh <- path:
					logger.Debug("watcher emit", "path", path)
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Create != 0 {
					// New directories join the watch set.
					if fi, statErr := os.Stat(ev.Name); statErr == nil && fi.IsDir() {
						_ = addTree(ev.Name)
						continue
					}
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if !allowed(ev.Name, cfg.AllowedExts) {
					continue
				}
				path := ev.Name
				if t, ok := pending[path]; ok {
					t.Stop()
				}
				pending[path] = time.AfterFunc(cfg.Debounce, func() {
					select {
					case fired <- path:
					case <-ctx.Done():
					}
				})
			}
		}
	}()

	return evCh, errCh, nil
}

func emitExisting(ctx context.Context, root string, exts map[string]struct{}, out chan<- string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !allowed(path, exts) {
			return nil
		}
		select {
		case out <- path:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}

func allowed(path string, exts map[string]struct{}) bool {
	ext := constants.NormalizeExt(filepath.Ext(path))
	_, ok := exts[ext]
	return ok
}
