package progress

import (
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/modscan/internal/assets"
	"github.com/bnema/modscan/internal/conflict"
)

type recorder struct{ msgs []tea.Msg }

func (r *recorder) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestScanObserverMessages(t *testing.T) {
	rec := &recorder{}
	o := NewScanObserver(rec)

	o.OnScanStart(2, conflict.ModeEnabledOnly)
	o.OnModDone(0, 2, conflict.ModOutcome{RealName: "A", Status: conflict.OutcomeOK, Source: assets.SourceStructured, Assets: 3})
	o.OnModDone(1, 2, conflict.ModOutcome{RealName: "B", Status: conflict.OutcomeFailed, Reason: "boom"})
	o.OnScanDone(&conflict.ModConflictResult{})

	if len(rec.msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d: %#v", len(rec.msgs), rec.msgs)
	}
	if _, ok := rec.msgs[0].(StartStepMsg); !ok {
		t.Fatalf("expected StartStepMsg first, got %T", rec.msgs[0])
	}
	first, ok := rec.msgs[1].(ModDoneMsg)
	if !ok || first.Done != 1 || first.Total != 2 || first.Name != "A" || first.Assets != 3 {
		t.Fatalf("unexpected progress: %#v", rec.msgs[1])
	}
	if w, ok := rec.msgs[3].(WarningMsg); !ok || !strings.Contains(string(w), "B failed: boom") {
		t.Fatalf("expected failure warning, got %#v", rec.msgs[3])
	}
	if _, ok := rec.msgs[4].(CompleteStepMsg); !ok {
		t.Fatalf("expected CompleteStepMsg last, got %T", rec.msgs[4])
	}
}

func TestOutcomeWarning(t *testing.T) {
	tests := []struct {
		name    string
		outcome conflict.ModOutcome
		want    string
	}{
		{"ok", conflict.ModOutcome{RealName: "A", Status: conflict.OutcomeOK, Source: assets.SourceStructured}, ""},
		{"loose files", conflict.ModOutcome{RealName: "A", Status: conflict.OutcomeOK, Source: assets.SourceFallback, StructuredReason: assets.ReasonNoArchives}, ""},
		{"reader missing", conflict.ModOutcome{RealName: "A", Status: conflict.OutcomeOK, Source: assets.SourceFallback, StructuredReason: assets.ReasonReaderUnavailable}, "A: loose files only (reader-unavailable)"},
		{"missing", conflict.ModOutcome{RealName: "A", Status: conflict.OutcomeMissing}, "A: directory missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutcomeWarning(tt.outcome); got != tt.want {
				t.Fatalf("OutcomeWarning() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModelQuitCancels(t *testing.T) {
	cancelled := false
	m := NewModel("Scanning", "Discovering mods", "Scanning mods").OnQuit(func() { cancelled = true })

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !cancelled || !updated.(Model).Aborted() {
		t.Fatal("quitting a running scan should cancel it")
	}

	m = NewModel("Scanning", "Scanning mods").OnQuit(func() { t.Fatal("cancel after completion") })
	next, _ := m.Update(StartStepMsg{})
	next, _ = next.(Model).Update(CompleteStepMsg{})
	if !next.(Model).IsDone() {
		t.Fatal("expected model to be done")
	}
	next.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	failed, _ := NewModel("Scanning", "Scanning mods").Update(FailStepMsg{Err: errors.New("boom")})
	if failed.(Model).GetError() == nil || failed.(Model).GetProgress().Failed() == nil {
		t.Fatal("expected failure to be recorded")
	}
}

func TestProgressCounts(t *testing.T) {
	p := NewProgress("Scanning", "Discovering mods", "Enumerating assets")
	p.StartStep()
	p.CompleteStep()
	p.StartStep()
	p.ModDone(1, 4, "A")
	if p.Current != 1 || p.Percent() != 0.25 {
		t.Fatalf("unexpected progress: step %d, %.2f", p.Current, p.Percent())
	}
	p.CompleteStep()
	if !p.IsComplete() || p.Percent() != 0 {
		t.Fatal("expected all steps complete and counter reset")
	}
}

func TestPrintOutcomeWarnings(t *testing.T) {
	var buf strings.Builder
	Out = &buf
	t.Cleanup(func() { Out = os.Stdout })

	n := PrintOutcomeWarnings([]conflict.ModOutcome{
		{RealName: "A", Status: conflict.OutcomeOK, Source: assets.SourceStructured},
		{RealName: "B", Status: conflict.OutcomeMissing},
	})
	if n != 1 || !strings.Contains(buf.String(), "B: directory missing") {
		t.Fatalf("expected one warning for B, got %d: %q", n, buf.String())
	}
}
