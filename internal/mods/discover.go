package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/modscan/internal/conflict"
)

var (
	ErrModNotFound = errors.New("mod not found")
	ErrModExists   = errors.New("mod already exists")
	ErrInvalidName = errors.New("invalid mod name")
	ErrModsDir     = errors.New("failed to access mods directory")
)

// Discover lists the mods under both roots. A root that does not exist
// contributes nothing. Enabled mods come first, then backed-up mods, each
// group sorted case-insensitively by name.
func Discover(enabledRoot, backupRoot string, catalog *Catalog) ([]*Mod, error) {
	var list []*Mod

	roots := []struct {
		dir    string
		status conflict.Status
	}{
		{enabledRoot, conflict.StatusEnabled},
		{backupRoot, conflict.StatusBackedUp},
	}

	for _, r := range roots {
		if r.dir == "" {
			continue
		}
		found, err := listRoot(r.dir, r.status, catalog)
		if err != nil {
			return nil, err
		}
		list = append(list, found...)
	}

	sort.Slice(list, func(i, j int) bool {
		pi, pj := statusPriority(list[i].Status), statusPriority(list[j].Status)
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})

	if list == nil {
		list = []*Mod{}
	}
	return list, nil
}

func listRoot(dir string, status conflict.Status, catalog *Catalog) ([]*Mod, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrModsDir, err)
	}

	var list []*Mod
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		// Skip hidden directories
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		m := &Mod{
			Name:        entry.Name(),
			DisplayName: catalog.DisplayName(entry.Name()),
			Status:      status,
			Path:        path,
		}
		if rev, err := Revision(path); err == nil {
			m.Revision = rev
		}
		list = append(list, m)
	}
	return list, nil
}

func statusPriority(s conflict.Status) int {
	if s == conflict.StatusEnabled {
		return 0
	}
	return 1
}

// ValidateName rejects names that would escape the mod roots
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
