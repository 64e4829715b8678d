package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/modscan/internal/conflict"
)

const (
	// FilePrefix starts every report file name
	FilePrefix = "conflict-report-"
	// TimestampFormat is used in report file names
	TimestampFormat = "20060102-150405"
)

var (
	ErrInvalidReport = errors.New("invalid report")
	ErrNoReports     = errors.New("no reports found")
)

// Envelope wraps a scan result with the context it was produced in
type Envelope struct {
	ID          string                      `json:"id"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Tool        string                      `json:"tool"`
	Version     string                      `json:"version"`
	EnabledRoot string                      `json:"enabled_root"`
	BackupRoot  string                      `json:"backup_root,omitempty"`
	Result      *conflict.ModConflictResult `json:"result"`
}

// New creates an envelope for result with a fresh ID
func New(tool, version, enabledRoot, backupRoot string, result *conflict.ModConflictResult) *Envelope {
	return &Envelope{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now(),
		Tool:        tool,
		Version:     version,
		EnabledRoot: enabledRoot,
		BackupRoot:  backupRoot,
		Result:      result,
	}
}

// FileName returns the report file name for the envelope's timestamp
func (e *Envelope) FileName() string {
	return FilePrefix + e.GeneratedAt.Format(TimestampFormat) + ".json"
}

// WriteTimestamped writes env as indented JSON into dir and returns the path
func WriteTimestamped(dir string, env *Envelope) (string, error) {
	if env == nil || env.Result == nil {
		return "", fmt.Errorf("%w: no result", ErrInvalidReport)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(dir, env.FileName())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Load reads a report written by WriteTimestamped
func Load(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	if env.Result == nil {
		return nil, fmt.Errorf("%w: missing result", ErrInvalidReport)
	}
	if _, err := uuid.Parse(env.ID); err != nil {
		return nil, fmt.Errorf("%w: bad id %q", ErrInvalidReport, env.ID)
	}
	return &env, nil
}

// List returns the report paths in dir, oldest first
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}

	// Timestamps sort lexically
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// Latest returns the path of the newest report in dir
func Latest(dir string) (string, error) {
	paths, err := List(dir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoReports, dir)
	}
	return paths[len(paths)-1], nil
}

// Prune removes all but the keep newest reports in dir and returns the
// removed paths
func Prune(dir string, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	paths, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) <= keep {
		return nil, nil
	}

	var removed []string
	for _, path := range paths[:len(paths)-keep] {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
