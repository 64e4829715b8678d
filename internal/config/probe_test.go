package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProbe(t *testing.T) {
	dir := t.TempDir()
	mods := filepath.Join(dir, "mods")
	if err := os.Mkdir(mods, 0755); err != nil {
		t.Fatal(err)
	}

	path := writeFile(t, dir, "probe.json", `{"mod_path": "`+filepath.ToSlash(mods)+`"}`)
	cfg, err := LoadProbe(path)
	if err != nil {
		t.Fatalf("LoadProbe() error = %v", err)
	}
	if cfg.ModPath != filepath.ToSlash(mods) || cfg.Workers != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	yamlPath := writeFile(t, dir, "probe.yaml", "mod_path: "+filepath.ToSlash(mods)+"\nworkers: 4\nreader_command: [repak, list]\n")
	cfg, err = LoadProbe(yamlPath)
	if err != nil {
		t.Fatalf("LoadProbe(yaml) error = %v", err)
	}
	if cfg.Workers != 4 || len(cfg.ReaderCommand) != 2 {
		t.Fatalf("unexpected yaml config: %+v", cfg)
	}
}

func TestLoadProbeErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "plain-file", "x")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "absent.json"), ErrCodeNotFound},
		{"bad json", writeFile(t, dir, "bad.json", "{"), ErrCodeInvalid},
		{"no mod path", writeFile(t, dir, "empty.json", `{"workers": 2}`), ErrCodeMissingPath},
		{"negative workers", writeFile(t, dir, "neg.json", `{"mod_path": "x", "workers": -1}`), ErrCodeInvalid},
		{"mod path absent", writeFile(t, dir, "absent-mods.json", `{"mod_path": "`+filepath.ToSlash(filepath.Join(dir, "nope"))+`"}`), ErrCodeBadModPath},
		{"mod path is a file", writeFile(t, dir, "file-mods.json", `{"mod_path": "`+filepath.ToSlash(file)+`"}`), ErrCodeBadModPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProbe(tt.path)
			if got := Code(err); got != tt.want {
				t.Fatalf("expected code %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}
