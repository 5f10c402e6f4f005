package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const catalogV1 = `
projects:
  - {id: a, title: A, date: "2025-01-01", repo: o/a}
`

const catalogV2 = `
projects:
  - {id: a, title: A, date: "2025-01-01", repo: o/a}
  - {id: b, title: B, date: "2025-01-02", repo: o/b}
`

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func watchEnv(t *testing.T) (string, *Holder) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogV1), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return path, NewHolder(doc)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path, h := watchEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	go Watch(ctx, h, path, logger, func(*Document) { reloads.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(catalogV2), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return h.Store().Len() == 2
	}, "catalog not reloaded after write")

	if reloads.Load() == 0 {
		t.Error("reload callback not invoked")
	}
}

func TestWatch_InvalidFileKeepsPrevious(t *testing.T) {
	path, h := watchEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	go Watch(ctx, h, path, logger, func(*Document) { reloads.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("projects: [{id: a}]"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(600 * time.Millisecond)
	if h.Store().Len() != 1 {
		t.Errorf("store len = %d, want previous catalog kept", h.Store().Len())
	}
	if reloads.Load() != 0 {
		t.Errorf("callback fired %d times for an invalid catalog", reloads.Load())
	}
}
