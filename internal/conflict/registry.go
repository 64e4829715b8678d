package conflict

import "sync/atomic"

// Registry holds the conflict counts of the last completed scan.
// A scan replaces the whole snapshot; readers never see a partial one.
type Registry struct {
	current atomic.Pointer[registrySnapshot]
}

type registrySnapshot struct {
	counts map[string]int    // identity -> count
	names  map[string]string // identity -> RealName
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Replace swaps in counts as the new snapshot
func (r *Registry) Replace(counts map[string]int) {
	snap := &registrySnapshot{
		counts: make(map[string]int, len(counts)),
		names:  make(map[string]string, len(counts)),
	}
	for name, n := range counts {
		key := identity(name)
		snap.counts[key] = n
		snap.names[key] = name
	}
	r.current.Store(snap)
}

// Publish replaces the snapshot with the counts of summaries
func (r *Registry) Publish(summaries []ModConflictSummary) {
	counts := make(map[string]int, len(summaries))
	for _, s := range summaries {
		counts[s.RealName] = s.ConflictCount
	}
	r.Replace(counts)
}

// Count returns the last known conflict count for realName
func (r *Registry) Count(realName string) (int, bool) {
	snap := r.current.Load()
	if snap == nil {
		return 0, false
	}
	n, ok := snap.counts[identity(realName)]
	return n, ok
}

// Snapshot returns a copy of the current counts keyed by RealName
func (r *Registry) Snapshot() map[string]int {
	snap := r.current.Load()
	if snap == nil {
		return map[string]int{}
	}
	out := make(map[string]int, len(snap.counts))
	for key, n := range snap.counts {
		out[snap.names[key]] = n
	}
	return out
}

// Len returns the number of mods in the current snapshot
func (r *Registry) Len() int {
	snap := r.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.counts)
}
