package assets

import (
	"path"
	"sort"
	"strings"
)

// RawExtensions are the loose asset files the fallback walk picks up
var RawExtensions = []string{".uasset", ".umap"}

// packageExtensions are stripped from identifiers. .uexp and .ubulk are
// split-off payloads of the same package, so they collapse onto it.
var packageExtensions = map[string]bool{
	".uasset": true,
	".umap":   true,
	".uexp":   true,
	".ubulk":  true,
}

// IsRawAsset reports whether name has one of the raw asset extensions
func IsRawAsset(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range RawExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsPackage reports whether name carries a package extension
func IsPackage(name string) bool {
	return packageExtensions[strings.ToLower(path.Ext(toSlash(name)))]
}

// Clean normalizes separators and strips a trailing package extension,
// keeping the original letter case for display.
func Clean(p string) string {
	p = toSlash(strings.TrimSpace(p))
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	p = strings.TrimPrefix(p, "./")
	p = strings.Trim(p, "/")

	if ext := path.Ext(p); packageExtensions[strings.ToLower(ext)] {
		p = strings.TrimSuffix(p, ext)
	}
	return p
}

// Key returns the case-insensitive identity of an asset path.
// Two paths with the same Key are the same asset.
func Key(p string) string {
	return strings.ToLower(Clean(p))
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Set is a case-insensitive set of asset identifiers.
// It remembers the first spelling seen for each identifier.
type Set struct {
	items map[string]string
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{items: make(map[string]string)}
}

// Add inserts p and reports whether it was new
func (s *Set) Add(p string) bool {
	clean := Clean(p)
	if clean == "" {
		return false
	}
	key := strings.ToLower(clean)
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = clean
	return true
}

// Has reports whether p is in the set
func (s *Set) Has(p string) bool {
	_, ok := s.items[Key(p)]
	return ok
}

// Len returns the number of distinct identifiers
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the identifiers in their first-seen spelling,
// sorted case-insensitively.
func (s *Set) Items() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.items))
	for _, v := range s.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Less orders identifiers by their upper-cased bytes, falling back to the
// exact spelling so the order stays total.
func Less(a, b string) bool {
	ua, ub := strings.ToUpper(a), strings.ToUpper(b)
	if ua != ub {
		return ua < ub
	}
	return a < b
}
