package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bnema/modscan/internal/container"
)

// Source tells which path produced a mod's identifiers
type Source string

const (
	SourceNone       Source = "none"
	SourceStructured Source = "structured"
	SourceFallback   Source = "fallback"
)

// Reason explains why structured enumeration produced no identifiers
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNoArchives        Reason = "no-archives"
	ReasonReaderUnavailable Reason = "reader-unavailable"
	ReasonReaderFailed      Reason = "reader-failed"
	ReasonEmptyArchives     Reason = "empty-archives"
	ReasonMissingDir        Reason = "missing-dir"
)

// Enumeration is the asset set of one mod directory
type Enumeration struct {
	Assets           *Set
	Source           Source
	StructuredReason Reason
	// StructuredErr is the reader error behind ReasonReaderFailed/Unavailable
	StructuredErr error
}

// Enumerator lists the assets a mod directory provides
type Enumerator struct {
	newReader container.Factory
	log       *log.Logger
}

// NewEnumerator creates an enumerator backed by the given reader factory.
// A nil factory means no archive reader is installed.
func NewEnumerator(factory container.Factory, logger *log.Logger) *Enumerator {
	if factory == nil {
		factory = container.Unavailable
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Enumerator{newReader: factory, log: logger}
}

// Enumerate returns the assets under dir. A missing directory is not an
// error. Reader failures fall back to a raw file walk; only a failed walk
// or cancellation is returned as an error.
func (e *Enumerator) Enumerate(ctx context.Context, dir string) (Enumeration, error) {
	result := Enumeration{Assets: NewSet(), Source: SourceNone}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			result.StructuredReason = ReasonMissingDir
			return result, nil
		}
		return result, err
	}
	if !info.IsDir() {
		return result, fmt.Errorf("not a directory: %s", dir)
	}

	packages, reason, rerr := e.structured(ctx, dir)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	for _, p := range packages {
		result.Assets.Add(p)
	}
	if result.Assets.Len() > 0 {
		result.Source = SourceStructured
		return result, nil
	}
	if reason == ReasonNone {
		reason = ReasonEmptyArchives
	}
	result.StructuredReason = reason
	result.StructuredErr = rerr

	raw, err := walkRaw(ctx, dir)
	if err != nil {
		return result, fmt.Errorf("fallback walk: %w", err)
	}
	for _, p := range raw {
		result.Assets.Add(p)
	}
	if result.Assets.Len() > 0 {
		result.Source = SourceFallback
		e.log.Debug("Used fallback enumeration", "dir", dir, "reason", reason, "assets", result.Assets.Len())
	}
	return result, nil
}

// structured asks the container reader for package entries.
// Every reader failure is absorbed here, including panics.
func (e *Enumerator) structured(ctx context.Context, dir string) (packages []string, reason Reason, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("Container reader panicked", "dir", dir, "panic", r)
			packages = nil
			reason = ReasonReaderFailed
			err = fmt.Errorf("reader panic: %v", r)
		}
	}()

	archives, err := container.FindArchives(dir)
	if err != nil {
		e.log.Warn("Failed to look for archives", "dir", dir, "error", err)
		return nil, ReasonReaderFailed, err
	}
	if len(archives) == 0 {
		return nil, ReasonNoArchives, nil
	}

	reader, err := e.newReader()
	if err != nil {
		if errors.Is(err, container.ErrUnavailable) {
			e.log.Debug("Container reader unavailable", "dir", dir, "error", err)
			return nil, ReasonReaderUnavailable, err
		}
		e.log.Warn("Failed to create container reader", "dir", dir, "error", err)
		return nil, ReasonReaderFailed, err
	}

	registered := 0
	for _, a := range archives {
		if err := reader.Register(a); err != nil {
			e.log.Warn("Failed to register archive", "archive", a, "error", err)
			continue
		}
		registered++
	}
	if registered == 0 {
		return nil, ReasonReaderFailed, errors.New("no archive could be registered")
	}

	if err := reader.Mount(ctx); err != nil {
		e.log.Warn("Failed to mount archives", "dir", dir, "error", err)
		return nil, ReasonReaderFailed, err
	}

	entries, err := reader.Packages()
	if err != nil {
		e.log.Warn("Failed to enumerate packages", "dir", dir, "error", err)
		return nil, ReasonReaderFailed, err
	}

	for _, entry := range entries {
		if IsPackage(entry) {
			packages = append(packages, entry)
		}
	}
	return packages, ReasonNone, nil
}

// walkRaw lists loose asset files relative to dir. Everything on disk
// counts, since the game loads it; only .git/ is skipped.
func walkRaw(ctx context.Context, dir string) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsRawAsset(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		ids = append(ids, Clean(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
