package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunTriggersOnChange(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	triggered := make(chan struct{}, 4)
	done := make(chan error, 1)
	w := New([]string{root}, 50*time.Millisecond, nil)
	go func() {
		done <- w.Run(ctx, func(context.Context) { triggered <- struct{}{} })
	}()

	// Give the watcher time to register the root
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		name := filepath.Join(root, "Mod", "file"+string(rune('a'+i))+".uasset")
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a trigger after changes")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunNoRoots(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing"), ""}, 0, nil)
	if err := w.Run(context.Background(), func(context.Context) {}); !errors.Is(err, ErrNoRoots) {
		t.Fatalf("expected ErrNoRoots, got %v", err)
	}
}

func TestIsInGitDir(t *testing.T) {
	if !isInGitDir(filepath.Join("mods", "A", ".git", "objects", "ab")) {
		t.Fatal("expected path inside .git")
	}
	if isInGitDir(filepath.Join("mods", "A", "Content", "x.uasset")) {
		t.Fatal("unexpected .git match")
	}
}
