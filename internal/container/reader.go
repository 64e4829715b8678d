package container

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ContractVersion identifies the Reader contract this package exposes.
// Adapters built against a different contract must not be plugged in.
const ContractVersion = 1

var (
	ErrUnavailable = errors.New("container reader unavailable")
	ErrNotMounted  = errors.New("container reader not mounted")
)

// ArchiveExtensions are the container files handed to a Reader.
// A .utoc is paired with a .ucas of the same base name; only the .utoc is registered.
var ArchiveExtensions = []string{".pak", ".utoc"}

// Reader is the narrow view the scan engine has of an archive library:
// register archive files, mount them, list the packages they hold.
type Reader interface {
	Register(archive string) error
	Mount(ctx context.Context) error
	Packages() ([]string, error)
}

// Factory returns a fresh Reader for one mod directory
type Factory func() (Reader, error)

// Unavailable is a Factory for setups with no archive reader installed
func Unavailable() (Reader, error) {
	return nil, ErrUnavailable
}

// IsArchive reports whether name has a registrable archive extension
func IsArchive(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ArchiveExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FindArchives returns the archive files under dir, sorted
func FindArchives(dir string) ([]string, error) {
	var archives []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if IsArchive(d.Name()) {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(archives)
	return archives, nil
}

// Static is an in-memory Reader that maps archive paths to package lists.
// Archives not in the map contribute nothing.
type Static struct {
	Entries  map[string][]string
	MountErr error

	registered []string
	mounted    bool
}

// Register records an archive
func (s *Static) Register(archive string) error {
	if _, err := os.Stat(archive); err != nil {
		return err
	}
	s.registered = append(s.registered, archive)
	return nil
}

// Mount marks the reader ready
func (s *Static) Mount(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.MountErr != nil {
		return s.MountErr
	}
	s.mounted = true
	return nil
}

// Packages returns the entries of every registered archive
func (s *Static) Packages() ([]string, error) {
	if !s.mounted {
		return nil, ErrNotMounted
	}
	var out []string
	for _, a := range s.registered {
		out = append(out, s.Entries[filepath.Base(a)]...)
	}
	return out, nil
}
