package conflict

// Observer receives scan progress. The scan never writes output itself;
// CLIs and the TUI render progress from these calls.
type Observer interface {
	OnScanStart(total int, mode string)
	OnModStart(idx, total int, mod ModDescriptor)
	OnModDone(idx, total int, outcome ModOutcome)
	OnScanDone(result *ModConflictResult)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) OnScanStart(int, string)            {}
func (NopObserver) OnModStart(int, int, ModDescriptor) {}
func (NopObserver) OnModDone(int, int, ModOutcome)     {}
func (NopObserver) OnScanDone(*ModConflictResult)      {}
