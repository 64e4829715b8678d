package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/modscan/internal/conflict"
)

func sampleResult() *conflict.ModConflictResult {
	return conflict.Assemble(conflict.Stats{
		ScannedMods: 2,
		TotalAssets: 2,
		Mode:        conflict.ModeEnabledOnly,
		Elapsed:     250 * time.Millisecond,
	}, []conflict.ConflictEntry{{Asset: "Game/Weapon1", Mods: []string{"A", "B"}}},
		[]conflict.ModConflictSummary{
			{RealName: "A", ConflictCount: 1, Sample: []string{"Game/Weapon1"}},
			{RealName: "B", ConflictCount: 1, Sample: []string{"Game/Weapon1"}},
		}, nil, nil)
}

func TestWriteAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	env := New("modscan", "test", "/mods", "", sampleResult())

	path, err := WriteTimestamped(dir, env)
	if err != nil {
		t.Fatalf("WriteTimestamped() error = %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, ".json") {
		t.Fatalf("unexpected file name %s", name)
	}
	if _, err := time.Parse(TimestampFormat, strings.TrimSuffix(strings.TrimPrefix(name, FilePrefix), ".json")); err != nil {
		t.Fatalf("file name has no timestamp: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.ID != env.ID || loaded.Tool != "modscan" || loaded.EnabledRoot != "/mods" {
		t.Fatalf("unexpected envelope: %+v", loaded)
	}
	if loaded.Result.ConflictAssets != 1 || loaded.Result.Conflicts[0].Asset != "Game/Weapon1" {
		t.Fatalf("unexpected result: %+v", loaded.Result)
	}
	if loaded.Result.Elapsed != 250*time.Millisecond {
		t.Fatalf("elapsed not restored: %v", loaded.Result.Elapsed)
	}
}

func TestWriteRejectsEmpty(t *testing.T) {
	if _, err := WriteTimestamped(t.TempDir(), New("modscan", "test", "", "", nil)); !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"garbage.json":  "{",
		"noresult.json": `{"id":"6f1c1a5e-4a0b-4c47-9a55-3c4c2a9f6c10"}`,
		"badid.json":    `{"id":"nope","result":{"conflicts":[]}}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, ErrInvalidReport) {
			t.Errorf("%s: expected ErrInvalidReport, got %v", name, err)
		}
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	if _, err := Latest(dir); !errors.Is(err, ErrNoReports) {
		t.Fatalf("expected ErrNoReports, got %v", err)
	}

	older := New("modscan", "test", "/mods", "", sampleResult())
	older.GeneratedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	newer := New("modscan", "test", "/mods", "", sampleResult())
	newer.GeneratedAt = older.GeneratedAt.Add(time.Hour)

	for _, env := range []*Envelope{newer, older} {
		if _, err := WriteTimestamped(dir, env); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := Latest(dir)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if filepath.Base(path) != newer.FileName() {
		t.Fatalf("expected %s, got %s", newer.FileName(), filepath.Base(path))
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var names []string
	for i := 0; i < 4; i++ {
		env := New("modscan", "test", "/mods", "", sampleResult())
		env.GeneratedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := WriteTimestamped(dir, env); err != nil {
			t.Fatal(err)
		}
		names = append(names, env.FileName())
	}

	removed, err := Prune(dir, 1)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if len(removed) != 3 {
		t.Fatalf("expected 3 removed, got %d", len(removed))
	}

	left, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || filepath.Base(left[0]) != names[3] {
		t.Fatalf("expected only %s to remain, got %v", names[3], left)
	}

	if removed, err := Prune(filepath.Join(dir, "missing"), 0); err != nil || len(removed) != 0 {
		t.Fatalf("expected no-op on missing dir, got %v, %v", removed, err)
	}
}
