package conflict

import (
	"encoding/json"
	"time"

	"github.com/bnema/modscan/internal/assets"
)

// Status is where a mod currently lives
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusBackedUp Status = "backed-up"
)

// ModDescriptor identifies one scannable mod.
// RealName is the directory name and the identity used by the index.
type ModDescriptor struct {
	DisplayName string `json:"display_name"`
	RealName    string `json:"real_name"`
	Status      Status `json:"status"`
}

// ConflictEntry is one asset provided by more than one mod
type ConflictEntry struct {
	Asset string   `json:"asset"`
	Mods  []string `json:"mods"` // sorted case-insensitively
}

// ModConflictSummary is the per-mod view of the conflicts
type ModConflictSummary struct {
	RealName      string   `json:"real_name"`
	ConflictCount int      `json:"conflict_count"`
	Sample        []string `json:"sample"` // first SampleSize conflicting assets
}

// SampleSize bounds ModConflictSummary.Sample
const SampleSize = 5

// OutcomeStatus classifies how a mod's processing ended
type OutcomeStatus string

const (
	OutcomeOK      OutcomeStatus = "ok"
	OutcomeMissing OutcomeStatus = "missing"
	OutcomeFailed  OutcomeStatus = "failed"
)

// ModOutcome records what happened to one mod during a scan
type ModOutcome struct {
	RealName         string        `json:"real_name"`
	Dir              string        `json:"dir"`
	Status           OutcomeStatus `json:"status"`
	Source           assets.Source `json:"source"`
	StructuredReason assets.Reason `json:"structured_reason,omitempty"`
	Assets           int           `json:"assets"`
	Reason           string        `json:"reason,omitempty"`
	Elapsed          time.Duration `json:"-"`
}

// Degraded reports whether the mod's assets may be incomplete
func (o ModOutcome) Degraded() bool {
	return o.Status == OutcomeFailed || o.Source == assets.SourceFallback
}

// ModConflictResult is the complete output of one scan.
// It is not modified after Assemble returns it.
type ModConflictResult struct {
	ScannedMods    int                  `json:"scanned_mods"`
	TotalAssets    int                  `json:"total_assets"`
	ConflictAssets int                  `json:"conflict_assets"`
	Conflicts      []ConflictEntry      `json:"conflicts"`
	Summaries      []ModConflictSummary `json:"summaries"`
	Mode           string               `json:"mode"`
	Elapsed        time.Duration        `json:"-"`
	Outcomes       []ModOutcome         `json:"outcomes"`
}

// Mode descriptions
const (
	ModeEnabledOnly = "scan enabled mods only"
	ModeAll         = "scan all mods including backups"
)

// ModeDescription returns the human-readable scan mode
func ModeDescription(enabledOnly bool) string {
	if enabledOnly {
		return ModeEnabledOnly
	}
	return ModeAll
}

// MarshalJSON adds the elapsed time as a duration string and in milliseconds
func (r ModConflictResult) MarshalJSON() ([]byte, error) {
	type plain ModConflictResult
	return json.Marshal(struct {
		plain
		Elapsed   string `json:"elapsed"`
		ElapsedMs int64  `json:"elapsed_ms"`
	}{
		plain:     plain(r),
		Elapsed:   r.Elapsed.String(),
		ElapsedMs: r.Elapsed.Milliseconds(),
	})
}

// UnmarshalJSON restores Elapsed from elapsed_ms
func (r *ModConflictResult) UnmarshalJSON(data []byte) error {
	type plain ModConflictResult
	var aux struct {
		plain
		ElapsedMs int64 `json:"elapsed_ms"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ModConflictResult(aux.plain)
	r.Elapsed = time.Duration(aux.ElapsedMs) * time.Millisecond
	return nil
}

// Summary returns the summary for realName, if present
func (r *ModConflictResult) Summary(realName string) (ModConflictSummary, bool) {
	key := identity(realName)
	for _, s := range r.Summaries {
		if identity(s.RealName) == key {
			return s, true
		}
	}
	return ModConflictSummary{}, false
}

// Degraded returns the outcomes of mods whose assets may be incomplete
func (r *ModConflictResult) Degraded() []ModOutcome {
	var out []ModOutcome
	for _, o := range r.Outcomes {
		if o.Degraded() {
			out = append(out, o)
		}
	}
	return out
}
