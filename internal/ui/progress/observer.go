package progress

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/modscan/internal/assets"
	"github.com/bnema/modscan/internal/conflict"
)

// Sender is the part of *tea.Program the scan observer needs
type Sender interface {
	Send(msg tea.Msg)
}

// ScanObserver forwards conflict scan events to a progress Model.
// The scan step is started on OnScanStart and completed on OnScanDone.
type ScanObserver struct {
	sender Sender
	mu     sync.Mutex
	done   int
}

var _ conflict.Observer = (*ScanObserver)(nil)

// NewScanObserver creates an observer sending to s
func NewScanObserver(s Sender) *ScanObserver {
	return &ScanObserver{sender: s}
}

// OnScanStart implements conflict.Observer
func (o *ScanObserver) OnScanStart(total int, mode string) {
	o.mu.Lock()
	o.done = 0
	o.mu.Unlock()
	o.sender.Send(StartStepMsg{})
}

// OnModStart implements conflict.Observer
func (o *ScanObserver) OnModStart(idx, total int, mod conflict.ModDescriptor) {}

// OnModDone implements conflict.Observer
func (o *ScanObserver) OnModDone(idx, total int, outcome conflict.ModOutcome) {
	o.mu.Lock()
	o.done++
	done := o.done
	o.mu.Unlock()

	o.sender.Send(ModDoneMsg{Done: done, Total: total, Name: outcome.RealName, Assets: outcome.Assets})

	if w := OutcomeWarning(outcome); w != "" {
		o.sender.Send(WarningMsg(w))
	}
}

// OnScanDone implements conflict.Observer
func (o *ScanObserver) OnScanDone(result *conflict.ModConflictResult) {
	o.sender.Send(CompleteStepMsg{})
}

// OutcomeWarning describes a failed, missing or degraded mod, or returns "".
// Mods shipping only loose files are not worth a warning.
func OutcomeWarning(o conflict.ModOutcome) string {
	switch {
	case o.Status == conflict.OutcomeFailed:
		return fmt.Sprintf("%s failed: %s", o.RealName, o.Reason)
	case o.Status == conflict.OutcomeMissing:
		return fmt.Sprintf("%s: directory missing", o.RealName)
	case o.Degraded() && o.StructuredReason != assets.ReasonNoArchives:
		if o.Reason != "" {
			return fmt.Sprintf("%s: loose files only (%s: %s)", o.RealName, o.StructuredReason, o.Reason)
		}
		return fmt.Sprintf("%s: loose files only (%s)", o.RealName, o.StructuredReason)
	}
	return ""
}
