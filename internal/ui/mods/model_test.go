package mods

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/modscan/internal/assets"
	"github.com/bnema/modscan/internal/conflict"
	"github.com/bnema/modscan/internal/mods"
)

func writeAsset(t *testing.T, root, mod, rel string) {
	t.Helper()
	path := filepath.Join(root, mod, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(mod), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanUpdatesBadges(t *testing.T) {
	enabledRoot, backupRoot := t.TempDir(), t.TempDir()
	writeAsset(t, enabledRoot, "A", "Game/Weapon1.uasset")
	writeAsset(t, enabledRoot, "B", "Game/Weapon1.uasset")
	writeAsset(t, enabledRoot, "C", "Game/Weapon2.uasset")

	manager := mods.NewManager(enabledRoot, backupRoot, t.TempDir(), nil)
	scanner := conflict.NewScanner(assets.NewEnumerator(nil, nil))
	m := NewModel(context.Background(), manager, scanner, true)

	done := m.scan()()
	next, cmd := m.Update(done)
	m = next.(Model)
	if m.errorMsg != "" {
		t.Fatalf("scan failed: %s", m.errorMsg)
	}
	if m.result == nil || m.result.ConflictAssets != 1 {
		t.Fatalf("unexpected result: %+v", m.result)
	}

	next, _ = m.Update(cmd())
	m = next.(Model)

	counts := map[string]int{}
	for _, it := range m.list.Items() {
		item := it.(modItem)
		if !item.scanned {
			t.Fatalf("%s has no registry entry", item.mod.Name)
		}
		counts[item.mod.Name] = item.conflicts
	}
	if counts["A"] != 1 || counts["B"] != 1 || counts["C"] != 0 {
		t.Fatalf("unexpected badges: %v", counts)
	}

	m.selected = m.list.Items()[0].(modItem).mod
	if got := m.conflictDetail(m.selected); got == "" {
		t.Fatal("expected conflict detail")
	}
}
