package conflict

import "time"

// Stats are the scan-level figures that go into a result
type Stats struct {
	ScannedMods int
	TotalAssets int
	Mode        string
	Elapsed     time.Duration
}

// Assemble builds the result value and publishes the per-mod counts to
// the registry, replacing whatever the previous scan left there.
// A nil registry skips publishing.
func Assemble(stats Stats, conflicts []ConflictEntry, summaries []ModConflictSummary, outcomes []ModOutcome, reg *Registry) *ModConflictResult {
	if conflicts == nil {
		conflicts = []ConflictEntry{}
	}
	if summaries == nil {
		summaries = []ModConflictSummary{}
	}
	if outcomes == nil {
		outcomes = []ModOutcome{}
	}

	result := &ModConflictResult{
		ScannedMods:    stats.ScannedMods,
		TotalAssets:    stats.TotalAssets,
		ConflictAssets: len(conflicts),
		Conflicts:      conflicts,
		Summaries:      summaries,
		Mode:           stats.Mode,
		Elapsed:        stats.Elapsed,
		Outcomes:       outcomes,
	}

	if reg != nil {
		reg.Publish(summaries)
	}

	return result
}
