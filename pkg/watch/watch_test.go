package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.txt")
	if err := os.WriteFile(path, []byte("0: (1,1,1,1)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan string, 4)
	w, err := New(path, func(_ context.Context, p string) error {
		reloaded <- p
		return nil
	}, Options{Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// an unrelated file in the same directory is ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("0: (1,2,1,1)\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-reloaded:
		abs, _ := filepath.Abs(path)
		if got != abs {
			t.Errorf("reloaded %q, want %q", got, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing the watched file")
	}
}

func TestWatcher_FailedReloadKeepsRunning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w, err := New(path, func(context.Context, string) error {
		calls.Add(1)
		return errors.New("bad graph")
	}, Options{Debounce: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		os.WriteFile(path, []byte("0: (1,1,1,1)\n"), 0o644)
		time.Sleep(50 * time.Millisecond)
	}
	if calls.Load() < 2 {
		t.Errorf("reload called %d times, want at least 2", calls.Load())
	}

	w.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "no", "such", "file"), nil, Options{}); err == nil {
		t.Error("watching a missing directory should fail")
	}
}
