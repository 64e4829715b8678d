package container

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFindArchives(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b_P.pak"))
	touch(t, filepath.Join(dir, "sub", "a_P.UTOC"))
	touch(t, filepath.Join(dir, "sub", "a_P.ucas"))
	touch(t, filepath.Join(dir, "readme.txt"))
	touch(t, filepath.Join(dir, ".git", "objects.pak"))

	got, err := FindArchives(dir)
	if err != nil {
		t.Fatalf("FindArchives() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "b_P.pak"),
		filepath.Join(dir, "sub", "a_P.UTOC"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d archives, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("archive %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestStaticReader(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "mod_P.pak")
	touch(t, archive)

	r := &Static{Entries: map[string][]string{
		"mod_P.pak": {"Game/Weapon1.uasset"},
	}}

	if _, err := r.Packages(); !errors.Is(err, ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted before mount, got %v", err)
	}
	if err := r.Register(archive); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	got, err := r.Packages()
	if err != nil {
		t.Fatalf("Packages() error = %v", err)
	}
	if len(got) != 1 || got[0] != "Game/Weapon1.uasset" {
		t.Fatalf("unexpected packages: %v", got)
	}
}

func TestExecFactoryMissingBinary(t *testing.T) {
	factory := NewExecFactory([]string{"modscan-no-such-tool-xyz", "list"}, nil)
	if _, err := factory(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
