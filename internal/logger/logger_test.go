package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitWritesToCacheDir(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	want := filepath.Join(cache, "modscan", "modscan.log")
	if got := GetLogPath(); got != want {
		t.Fatalf("GetLogPath() = %q, want %q", got, want)
	}

	if err := Init(false); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() {
		Close()
		Log = nil
	})

	For("scan").Info("Starting conflict scan", "mods", 3)

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected a log line")
	}
}

func TestForBeforeInit(t *testing.T) {
	Log = nil
	// must not panic
	For("scan").Warn("dropped")
	Info("dropped too")
}
