package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/modscan/internal/ui/styles"
)

const maxWarnings = 8

// Model renders a scan as a list of steps with a spinner on the running
// one and a bar for the mods finished so far.
type Model struct {
	progress *Progress
	spinner  spinner.Model
	bar      progress.Model
	onQuit   func()
	done     bool
	aborted  bool
	err      error
}

// NewModel creates a model with all steps pending
func NewModel(title string, stepNames ...string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return Model{
		progress: NewProgress(title, stepNames...),
		spinner:  s,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

// OnQuit sets a callback run when the user quits before the scan ends,
// typically a context cancel func.
func (m Model) OnQuit(fn func()) Model {
	m.onQuit = fn
	return m
}

type (
	// StartStepMsg starts the current step
	StartStepMsg struct{}

	// CompleteStepMsg completes the current step; the program quits after the last one
	CompleteStepMsg struct{}

	// FailStepMsg fails the current step and quits
	FailStepMsg struct{ Err error }

	// ModDoneMsg reports one finished mod of the running step
	ModDoneMsg struct {
		Done, Total int
		Name        string
		Assets      int
	}

	// WarningMsg adds a line under the steps
	WarningMsg string
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done {
				m.aborted = true
				if m.onQuit != nil {
					m.onQuit()
				}
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-10, 40)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case StartStepMsg:
		m.progress.StartStep()

	case CompleteStepMsg:
		m.progress.CompleteStep()
		if m.progress.IsComplete() {
			m.done = true
			return m, tea.Quit
		}

	case FailStepMsg:
		m.progress.FailStep(msg.Err)
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case ModDoneMsg:
		m.progress.ModDone(msg.Done, msg.Total, fmt.Sprintf("%s: %d assets", msg.Name, msg.Assets))
		return m, m.bar.SetPercent(m.progress.Percent())

	case WarningMsg:
		m.progress.AddWarning(string(msg))
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	p := m.progress

	b.WriteString(styles.NormalText.Bold(true).Render(p.Title))
	b.WriteString("\n\n")

	for _, step := range p.Steps {
		icon := StyledIcon(step.State)
		if step.State == StateInProgress {
			icon = m.spinner.View()
		}
		fmt.Fprintf(&b, "  %s %s", icon, StepStyle(step.State).Render(step.Name))

		switch step.State {
		case StateError:
			if step.Error != nil {
				b.WriteString(styles.ErrorText.Render(" - " + step.Error.Error()))
			}
		case StateInProgress:
			if p.Total > 0 {
				b.WriteString(styles.MutedText.Render(" " + FormatCount(p.Done, p.Total)))
			}
		}
		b.WriteString("\n")

		if step.State == StateInProgress && p.Total > 0 {
			b.WriteString("      " + styles.MutedText.Render(p.LastMod) + "\n")
			b.WriteString("    " + m.bar.View() + "\n")
		}
	}

	if n := len(p.Warnings); n > 0 {
		b.WriteString("\n")
		shown := p.Warnings
		if n > maxWarnings {
			shown = shown[n-maxWarnings:]
			b.WriteString("  " + styles.MutedText.Render(fmt.Sprintf("... %d earlier warnings", n-maxWarnings)) + "\n")
		}
		for _, w := range shown {
			b.WriteString("  " + WarningIcon() + " " + styles.WarningText.Render(w) + "\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

// GetError returns the error of the failed step
func (m Model) GetError() error {
	return m.err
}

func (m Model) IsDone() bool {
	return m.done
}

// Aborted reports whether the user quit before the scan finished
func (m Model) Aborted() bool {
	return m.aborted
}

func (m Model) GetProgress() *Progress {
	return m.progress
}
