// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ManuGH/tlgrab/internal/cache"
	xglog "github.com/ManuGH/tlgrab/internal/log"
)

// Watcher clears the response cache whenever the guide file is rewritten.
// It watches the parent directory so that atomic renames are seen.
type Watcher struct {
	path  string
	base  string
	cache cache.Cache
	fsw   *fsnotify.Watcher
}

// NewWatcher starts watching the directory of path.
func NewWatcher(path string, c cache.Cache) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{path: path, base: filepath.Base(path), cache: c, fsw: fsw}, nil
}

// Run processes events until ctx is done. It closes the underlying watcher
// on return.
func (w *Watcher) Run(ctx context.Context) {
	logger := xglog.WithComponentFromContext(ctx, "watcher")
	defer func() { _ = w.fsw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.cache.Clear(ctx)
			logger.Debug().
				Str(xglog.FieldEvent, "watcher.invalidate").
				Str(xglog.FieldPath, w.path).
				Str("op", ev.Op.String()).
				Msg("guide changed, response cache cleared")
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Str(xglog.FieldEvent, "watcher.error").Msg("file watcher error")
		}
	}
}
