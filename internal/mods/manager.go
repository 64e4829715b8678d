package mods

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Manager handles mod inventory operations
type Manager struct {
	enabledRoot string
	backupRoot  string
	catalog     *Catalog
	mover       *Mover
	log         *log.Logger
}

// NewManager creates a new mod manager
func NewManager(enabledRoot, backupRoot, dataDir string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		enabledRoot: enabledRoot,
		backupRoot:  backupRoot,
		catalog:     NewCatalog(dataDir),
		mover:       NewMover(enabledRoot, backupRoot),
		log:         logger,
	}
}

// Load loads the catalog from disk
func (m *Manager) Load() error {
	return m.catalog.Load()
}

// Save saves the catalog to disk
func (m *Manager) Save() error {
	return m.catalog.Save()
}

// EnabledRoot returns the directory holding enabled mods
func (m *Manager) EnabledRoot() string {
	return m.enabledRoot
}

// BackupRoot returns the directory holding backed-up mods
func (m *Manager) BackupRoot() string {
	return m.backupRoot
}

// List returns every mod under both roots
func (m *Manager) List() ([]*Mod, error) {
	return Discover(m.enabledRoot, m.backupRoot, m.catalog)
}

// Get finds a mod by folder name, case-insensitively
func (m *Manager) Get(name string) (*Mod, error) {
	list, err := m.List()
	if err != nil {
		return nil, err
	}
	for _, mod := range list {
		if strings.EqualFold(mod.Name, name) {
			return mod, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrModNotFound, name)
}

// Enable moves a backed-up mod into the enabled root
func (m *Manager) Enable(name string) error {
	dst, err := m.mover.Enable(name)
	if err != nil {
		return err
	}
	m.touch(name)
	m.log.Info("Mod enabled", "mod", name, "path", dst)
	return nil
}

// Disable moves an enabled mod into the backup root
func (m *Manager) Disable(name string) error {
	dst, err := m.mover.Disable(name)
	if err != nil {
		return err
	}
	m.touch(name)
	m.log.Info("Mod disabled", "mod", name, "path", dst)
	return nil
}

// Rename sets the display name of a mod. An empty display name resets it.
func (m *Manager) Rename(name, displayName string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !m.exists(name) {
		return fmt.Errorf("%w: %s", ErrModNotFound, name)
	}

	meta, ok := m.catalog.Get(name)
	if !ok {
		meta.AddedAt = time.Now()
	}
	meta.DisplayName = strings.TrimSpace(displayName)
	meta.UpdatedAt = time.Now()
	m.catalog.Set(name, meta)

	if err := m.catalog.Save(); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	m.log.Info("Mod renamed", "mod", name, "display_name", meta.DisplayName)
	return nil
}

func (m *Manager) exists(name string) bool {
	for _, root := range []string{m.enabledRoot, m.backupRoot} {
		if root == "" {
			continue
		}
		if info, err := os.Stat(filepath.Join(root, name)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func (m *Manager) touch(name string) {
	now := time.Now()
	meta, ok := m.catalog.Get(name)
	if !ok {
		meta.AddedAt = now
	}
	meta.UpdatedAt = now
	m.catalog.Set(name, meta)

	if err := m.catalog.Save(); err != nil {
		m.log.Warn("Failed to save catalog", "error", err)
	}
}
