package mods

import (
	"time"

	"github.com/bnema/modscan/internal/conflict"
)

// Mod is a mod directory found under one of the roots
type Mod struct {
	Name        string          `json:"name"`         // Folder name, the RealName used by scans
	DisplayName string          `json:"display_name"` // From the catalog, defaults to Name
	Status      conflict.Status `json:"status"`
	Path        string          `json:"path"`
	Revision    string          `json:"revision,omitempty"` // Short HEAD hash for git checkouts
}

// Descriptor converts the mod to its scan descriptor
func (m *Mod) Descriptor() conflict.ModDescriptor {
	return conflict.ModDescriptor{
		DisplayName: m.DisplayName,
		RealName:    m.Name,
		Status:      m.Status,
	}
}

// Descriptors converts a mod list in order
func Descriptors(list []*Mod) []conflict.ModDescriptor {
	out := make([]conflict.ModDescriptor, 0, len(list))
	for _, m := range list {
		out = append(out, m.Descriptor())
	}
	return out
}

// Metadata is stored in mods.json per mod
type Metadata struct {
	DisplayName string    `json:"display_name,omitempty"`
	AddedAt     time.Time `json:"added_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// catalogFile is the on-disk layout of mods.json
type catalogFile struct {
	Mods map[string]Metadata `json:"mods"`
}
