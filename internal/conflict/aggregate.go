package conflict

import (
	"sort"

	"github.com/bnema/modscan/internal/assets"
)

// Aggregate derives the conflict list and the per-mod summaries.
// Both orderings depend only on the index contents.
func Aggregate(ix *Index, mods []ModDescriptor) ([]ConflictEntry, []ModConflictSummary) {
	conflicts := make([]ConflictEntry, 0)
	for _, e := range ix.entries {
		if len(e.owners) < 2 {
			continue
		}
		conflicts = append(conflicts, ConflictEntry{
			Asset: e.asset,
			Mods:  e.sortedOwners(),
		})
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return assets.Less(conflicts[i].Asset, conflicts[j].Asset)
	})

	summaries := make([]ModConflictSummary, 0, len(mods))
	byMod := make(map[string]int, len(mods))
	for _, m := range mods {
		key := identity(m.RealName)
		if key == "" {
			continue
		}
		if _, ok := byMod[key]; ok {
			continue
		}
		byMod[key] = len(summaries)
		summaries = append(summaries, ModConflictSummary{
			RealName: m.RealName,
			Sample:   []string{},
		})
	}

	for _, c := range conflicts {
		for _, owner := range c.Mods {
			i, ok := byMod[identity(owner)]
			if !ok {
				continue
			}
			s := &summaries[i]
			s.ConflictCount++
			if len(s.Sample) < SampleSize {
				s.Sample = append(s.Sample, c.Asset)
			}
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].ConflictCount != summaries[j].ConflictCount {
			return summaries[i].ConflictCount > summaries[j].ConflictCount
		}
		return assets.Less(summaries[i].RealName, summaries[j].RealName)
	})

	return conflicts, summaries
}
