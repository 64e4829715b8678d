package conflict

import "strings"

// identity is the case-insensitive key of a mod RealName
func identity(realName string) string {
	return strings.ToLower(strings.TrimSpace(realName))
}

// SelectMods returns the distinct mods to scan. With enabledOnly set only
// enabled mods qualify. Duplicates are detected case-insensitively on
// RealName and the first occurrence wins; blank RealNames are dropped.
func SelectMods(mods []ModDescriptor, enabledOnly bool) []ModDescriptor {
	seen := make(map[string]bool, len(mods))
	selected := make([]ModDescriptor, 0, len(mods))

	for _, m := range mods {
		if enabledOnly && m.Status != StatusEnabled {
			continue
		}
		key := identity(m.RealName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, m)
	}

	return selected
}
