package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file must stay quiet before it is processed.
const settleDelay = 300 * time.Millisecond

// Watch processes supported files as they are created or rewritten in
// inputDir until ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, inputDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(inputDir); err != nil {
		return fmt.Errorf("watch %s: %w", inputDir, err)
	}
	r.log.Info("watching for documents", "input_dir", inputDir)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settleDelay / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if path, ok := watchTarget(ev); ok {
				pending[path] = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("watcher error", "error", err)
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settleDelay {
					continue
				}
				delete(pending, path)
				r.ProcessFile(ctx, path)
			}
		}
	}
}

// watchTarget reports whether ev should trigger processing and for which file.
func watchTarget(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	if !isInput(filepath.Base(ev.Name)) {
		return "", false
	}
	return ev.Name, true
}
