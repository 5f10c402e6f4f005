package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// ReloadCallback is called after the watcher swapped in a new catalog.
type ReloadCallback func(doc *Document)

// Watch watches the catalog file at path and reloads it into h on change
// until ctx is cancelled. A file that fails to parse leaves the current
// catalog in place.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename keep triggering reloads.
func Watch(ctx context.Context, h *Holder, path string, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("catalog watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDebounce)
			timerCh = timer.C
		} else {
			timer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("catalog watcher: stopped")
			return nil

		case <-timerCh:
			reload(h, abs, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("catalog watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func reload(h *Holder, path string, logger *slog.Logger, cb ReloadCallback) {
	doc, err := Load(path)
	if err != nil {
		logger.Warn("catalog watcher: reload failed, keeping previous catalog",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	h.Swap(doc)
	logger.Info("catalog watcher: reloaded",
		slog.String("path", path),
		slog.Int("projects", doc.Store.Len()))
	if cb != nil {
		cb(doc)
	}
}
