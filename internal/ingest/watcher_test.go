package ingest

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "day.csv")
	writeFile(t, path, dayCSV)

	changed := make(chan struct{}, 10)
	w, err := NewWatcher([]string{path}, 50*time.Millisecond, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Unrelated files in the same directory are ignored.
	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")
	for i := 0; i < 3; i++ {
		writeFile(t, path, dayCSV)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case <-changed:
		t.Error("burst of writes produced more than one notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_RunWaitsForCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour.csv")
	writeFile(t, path, hourCSV)

	started := make(chan struct{}, 1)
	var finished atomic.Bool
	w, err := NewWatcher([]string{path}, 10*time.Millisecond, func() {
		started <- struct{}{}
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, path, hourCSV)
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	if !finished.Load() {
		t.Error("Run returned before the callback finished")
	}
}

func TestScheduler_Spec(t *testing.T) {
	s := NewScheduler(nil, 15*time.Minute)
	if got := s.Spec(); got != "@every 15m0s" {
		t.Errorf("Spec() = %q, want @every 15m0s", got)
	}
}
