package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, path, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Fatalf("expected no config file, got %s", path)
	}
	if !cfg.EnabledOnly || cfg.Workers != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DataDir != filepath.Join(home, "data", AppName) {
		t.Fatalf("unexpected data dir %s", cfg.DataDir)
	}
	if cfg.Report.Dir != filepath.Join(cfg.DataDir, "reports") {
		t.Fatalf("unexpected report dir %s", cfg.Report.Dir)
	}
	if len(cfg.Reader.Command) == 0 || cfg.Reader.Command[0] != "repak" {
		t.Fatalf("unexpected reader command %v", cfg.Reader.Command)
	}
}

func TestLoadLayering(t *testing.T) {
	isolate(t)

	file := filepath.Join(t.TempDir(), "config.yaml")
	body := `enabled_root: /games/mods
backup_root: /games/mods-off
enabled_only: false
workers: 2
reader:
  command: ["unpak", "ls", "{archive}"]
`
	if err := os.WriteFile(file, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MODSCAN_WORKERS", "6")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("enabled-root", "", "")
	flags.String("backup-root", "", "")
	flags.Int("workers", 0, "")
	if err := flags.Parse([]string{"--enabled-root", "/override"}); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Load(file, flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != file {
		t.Fatalf("expected %s, got %s", file, path)
	}
	if cfg.EnabledRoot != "/override" {
		t.Errorf("flag should win, got %s", cfg.EnabledRoot)
	}
	if cfg.BackupRoot != "/games/mods-off" {
		t.Errorf("file value lost, got %s", cfg.BackupRoot)
	}
	if cfg.Workers != 6 {
		t.Errorf("env should beat the file, got %d", cfg.Workers)
	}
	if cfg.EnabledOnly {
		t.Error("enabled_only from file ignored")
	}
	if !reflect.DeepEqual(cfg.Reader.Command, []string{"unpak", "ls", "{archive}"}) {
		t.Errorf("unexpected reader command %v", cfg.Reader.Command)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, _, err := Load(missing, nil); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}

	cfg, path, err := LoadOptional(missing, nil)
	if err != nil {
		t.Fatalf("LoadOptional failed: %v", err)
	}
	if path != "" || cfg.Workers != 1 {
		t.Fatalf("expected defaults, got path=%q workers=%d", path, cfg.Workers)
	}
}

func TestValidateSameRoots(t *testing.T) {
	cfg := Default()
	cfg.EnabledRoot = "/mods"
	cfg.BackupRoot = "/mods/"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.EnabledRoot = "/games/mods"
	cfg.Workers = 3

	path := filepath.Join(Dir(), ConfigFileName)
	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, resolved, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if resolved != path {
		t.Fatalf("expected default path %s, got %s", path, resolved)
	}
	if loaded.EnabledRoot != "/games/mods" || loaded.Workers != 3 {
		t.Fatalf("unexpected config: %+v", loaded)
	}
}
