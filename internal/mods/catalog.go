package mods

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// CatalogFile is the catalog's file name inside the data dir
const CatalogFile = "mods.json"

// Catalog persists per-mod metadata
type Catalog struct {
	path string
	data *catalogFile
	mu   sync.RWMutex
}

// NewCatalog creates a catalog stored in dataDir
func NewCatalog(dataDir string) *Catalog {
	return &Catalog{
		path: filepath.Join(dataDir, CatalogFile),
		data: &catalogFile{Mods: make(map[string]Metadata)},
	}
}

// Path returns the catalog file location
func (c *Catalog) Path() string {
	return c.path
}

// Load reads the catalog from disk. A missing file yields an empty catalog.
func (c *Catalog) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.data = &catalogFile{Mods: make(map[string]Metadata)}
			return nil
		}
		return err
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}
	if file.Mods == nil {
		file.Mods = make(map[string]Metadata)
	}

	c.data = &file
	return nil
}

// Save writes the catalog to disk
func (c *Catalog) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0644)
}

// Get retrieves metadata for a mod
func (c *Catalog) Get(name string) (Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	meta, ok := c.data.Mods[name]
	return meta, ok
}

// Set stores metadata for a mod
func (c *Catalog) Set(name string, meta Metadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.Mods[name] = meta
}

// Delete removes metadata for a mod
func (c *Catalog) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data.Mods, name)
}

// All returns a copy of all metadata
func (c *Catalog) All() map[string]Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]Metadata, len(c.data.Mods))
	for k, v := range c.data.Mods {
		result[k] = v
	}
	return result
}

// DisplayName returns the catalog display name for a mod, or name itself
func (c *Catalog) DisplayName(name string) string {
	if c == nil {
		return name
	}
	if meta, ok := c.Get(name); ok && meta.DisplayName != "" {
		return meta.DisplayName
	}
	return name
}
