package progress

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/modscan/internal/ui/styles"
)

// State of a step
type State int

const (
	StatePending State = iota
	StateInProgress
	StateComplete
	StateError
)

// Step is one phase of a scan, like "Enumerating assets"
type Step struct {
	Name  string
	State State
	Error error
}

// Icons are the glyphs drawn in front of steps
type Icons struct {
	Check, Cross, Pending, Warning, Spinner string
}

var (
	nerdIcons  = Icons{Check: "\uf00c", Cross: "\uf00d", Pending: "\uf111", Warning: "\uf071", Spinner: "\uf110"}
	asciiIcons = Icons{Check: "+", Cross: "x", Pending: "o", Warning: "!", Spinner: "*"}
)

// GetIcons returns Nerd Font glyphs when MODSCAN_NERD_FONTS=1, ASCII otherwise
func GetIcons() Icons {
	if os.Getenv("MODSCAN_NERD_FONTS") == "1" {
		return nerdIcons
	}
	return asciiIcons
}

var stateColors = map[State]lipgloss.Color{
	StatePending:    styles.Muted,
	StateInProgress: styles.Primary,
	StateComplete:   styles.Success,
	StateError:      styles.Error,
}

// StyledIcon renders the icon for state
func StyledIcon(state State) string {
	icons := GetIcons()
	glyph := icons.Pending
	switch state {
	case StateInProgress:
		glyph = icons.Spinner
	case StateComplete:
		glyph = icons.Check
	case StateError:
		glyph = icons.Cross
	}
	return lipgloss.NewStyle().Foreground(stateColors[state]).Render(glyph)
}

// WarningIcon renders the warning glyph
func WarningIcon() string {
	return lipgloss.NewStyle().Foreground(styles.Warning).Render(GetIcons().Warning)
}

// StepStyle returns the text style for a step in state
func StepStyle(state State) lipgloss.Style {
	switch state {
	case StateComplete:
		return styles.SuccessText
	case StateError:
		return styles.ErrorText
	case StateInProgress:
		return styles.NormalText.Bold(true)
	default:
		return styles.MutedText
	}
}

// Progress is the state behind the scan progress display: the steps,
// the per-mod counter of the running step and the warnings collected so far.
type Progress struct {
	Title    string
	Steps    []Step
	Current  int
	Done     int // mods finished in the running step
	Total    int
	LastMod  string
	Warnings []string
}

// NewProgress creates a Progress with all steps pending
func NewProgress(title string, stepNames ...string) *Progress {
	steps := make([]Step, len(stepNames))
	for i, name := range stepNames {
		steps[i] = Step{Name: name}
	}
	return &Progress{Title: title, Steps: steps}
}

func (p *Progress) running() *Step {
	if p.Current < len(p.Steps) {
		return &p.Steps[p.Current]
	}
	return nil
}

// StartStep marks the current step as running
func (p *Progress) StartStep() {
	if s := p.running(); s != nil {
		s.State = StateInProgress
		p.Done, p.Total, p.LastMod = 0, 0, ""
	}
}

// CompleteStep marks the current step as done and moves to the next one
func (p *Progress) CompleteStep() {
	if s := p.running(); s != nil {
		s.State = StateComplete
		p.Done, p.Total, p.LastMod = 0, 0, ""
		p.Current++
	}
}

// FailStep marks the current step as failed
func (p *Progress) FailStep(err error) {
	if s := p.running(); s != nil {
		s.State = StateError
		s.Error = err
	}
}

// ModDone records one finished mod of the running step
func (p *Progress) ModDone(done, total int, name string) {
	p.Done, p.Total, p.LastMod = done, total, name
}

// Percent is the share of mods finished in the running step, 0 to 1
func (p *Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

func (p *Progress) AddWarning(msg string) {
	p.Warnings = append(p.Warnings, msg)
}

// Failed returns the first failed step, or nil
func (p *Progress) Failed() *Step {
	for i := range p.Steps {
		if p.Steps[i].State == StateError {
			return &p.Steps[i]
		}
	}
	return nil
}

// IsComplete reports whether every step finished
func (p *Progress) IsComplete() bool {
	for _, step := range p.Steps {
		if step.State != StateComplete {
			return false
		}
	}
	return true
}
