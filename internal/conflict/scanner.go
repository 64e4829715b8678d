package conflict

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/modscan/internal/assets"
)

var (
	ErrInvalidRoot    = errors.New("invalid mod root")
	ErrInvalidModName = errors.New("invalid mod name")
)

// AssetEnumerator lists the assets of a mod directory
type AssetEnumerator interface {
	Enumerate(ctx context.Context, dir string) (assets.Enumeration, error)
}

// Request is one scan invocation
type Request struct {
	Mods        []ModDescriptor
	EnabledRoot string
	BackupRoot  string
	EnabledOnly bool
}

// Scanner runs conflict scans
type Scanner struct {
	enumerator AssetEnumerator
	registry   *Registry
	observer   Observer
	log        *log.Logger
	workers    int
}

// Option configures a Scanner
type Option func(*Scanner)

// WithRegistry publishes counts to reg after each scan
func WithRegistry(reg *Registry) Option {
	return func(s *Scanner) { s.registry = reg }
}

// WithObserver reports progress to o
func WithObserver(o Observer) Option {
	return func(s *Scanner) { s.observer = o }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) { s.log = l }
}

// WithWorkers enumerates up to n mods at a time
func WithWorkers(n int) Option {
	return func(s *Scanner) { s.workers = n }
}

// NewScanner creates a scanner. Without WithRegistry it owns a private registry.
func NewScanner(enumerator AssetEnumerator, opts ...Option) *Scanner {
	s := &Scanner{
		enumerator: enumerator,
		registry:   NewRegistry(),
		observer:   NopObserver{},
		log:        log.New(io.Discard),
		workers:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.observer == nil {
		s.observer = NopObserver{}
	}
	return s
}

// Registry returns the registry this scanner publishes to
func (s *Scanner) Registry() *Registry {
	return s.registry
}

// Scan selects the requested mods, indexes their assets and returns the
// conflict report. Per-mod failures are part of the result; the only
// errors are invalid roots and cancellation.
func (s *Scanner) Scan(ctx context.Context, req Request) (*ModConflictResult, error) {
	if err := validateRoot(req.EnabledRoot); err != nil {
		return nil, err
	}
	if !req.EnabledOnly {
		if err := validateRoot(req.BackupRoot); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	mode := ModeDescription(req.EnabledOnly)
	selected := SelectMods(req.Mods, req.EnabledOnly)

	s.log.Info("Starting conflict scan", "mods", len(selected), "mode", mode)
	s.observer.OnScanStart(len(selected), mode)

	ix, outcomes, err := BuildIndex(ctx, selected, s.resolver(req), s.enumerator.Enumerate, BuildOptions{
		Workers:  s.workers,
		Observer: s.observer,
		Logger:   s.log,
	})
	if err != nil {
		s.log.Warn("Conflict scan cancelled", "error", err)
		return nil, err
	}

	conflicts, summaries := Aggregate(ix, selected)
	result := Assemble(Stats{
		ScannedMods: len(selected),
		TotalAssets: ix.TotalSeen(),
		Mode:        mode,
		Elapsed:     time.Since(start),
	}, conflicts, summaries, outcomes, s.registry)

	s.log.Info("Conflict scan complete",
		"mods", result.ScannedMods,
		"assets", result.TotalAssets,
		"conflicts", result.ConflictAssets,
		"degraded", len(result.Degraded()),
		"elapsed", result.Elapsed.Round(time.Millisecond),
	)
	s.observer.OnScanDone(result)

	return result, nil
}

func (s *Scanner) resolver(req Request) DirResolver {
	return func(m ModDescriptor) (string, error) {
		// folder names are joined verbatim; trimming only guards the checks
		name := strings.TrimSpace(m.RealName)
		if name == "" || name == "." || name == ".." || strings.ContainsAny(m.RealName, `/\`) {
			return "", fmt.Errorf("%w: %q", ErrInvalidModName, m.RealName)
		}

		root := req.EnabledRoot
		if m.Status == StatusBackedUp {
			root = req.BackupRoot
		}
		if root == "" {
			return "", fmt.Errorf("%w: no root for %s mods", ErrInvalidRoot, m.Status)
		}
		return filepath.Join(root, m.RealName), nil
	}
}

// validateRoot accepts a directory or a path that does not exist yet
func validateRoot(root string) error {
	if strings.TrimSpace(root) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", ErrInvalidRoot, root)
	}
	return nil
}
