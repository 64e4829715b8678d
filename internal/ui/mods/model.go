package mods

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/modscan/internal/conflict"
	"github.com/bnema/modscan/internal/mods"
	"github.com/bnema/modscan/internal/ui/styles"
)

// View states
type viewState int

const (
	viewList viewState = iota
	viewProgress
	viewInfo
)

// modItem implements list.Item for bubbles/list
type modItem struct {
	mod       *mods.Mod
	conflicts int
	scanned   bool
}

func (i modItem) Title() string {
	if i.mod.DisplayName != "" && i.mod.DisplayName != i.mod.Name {
		return i.mod.DisplayName + " (" + i.mod.Name + ")"
	}
	return i.mod.Name
}

func (i modItem) Description() string {
	parts := []string{styles.FormatModStatus(string(i.mod.Status))}

	if rev := styles.FormatRevision(i.mod.Revision); rev != "" {
		parts = append(parts, rev)
	}
	if badge := styles.FormatConflictBadge(i.conflicts, i.scanned); badge != "" {
		parts = append(parts, badge)
	}

	return strings.Join(parts, " | ")
}

func (i modItem) FilterValue() string {
	return i.mod.Name + " " + i.mod.DisplayName
}

// KeyMap defines keyboard shortcuts
type KeyMap struct {
	Scan      key.Binding
	ToggleAll key.Binding
	Toggle    key.Binding
	Info      key.Binding
	Reload    key.Binding
	Quit      key.Binding
	Back      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Scan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scan"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "include backups"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "enable/disable"),
		),
		Info: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "conflicts"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// Model is the main TUI model
type Model struct {
	ctx     context.Context
	manager *mods.Manager
	scanner *conflict.Scanner
	list    list.Model
	spinner spinner.Model
	keys    KeyMap

	state         viewState
	width, height int

	enabledOnly bool
	result      *conflict.ModConflictResult
	selected    *mods.Mod
	statusMsg   string
	errorMsg    string
	progressMsg string
}

// NewModel creates a new TUI model. Scans run on ctx and publish their
// counts to the scanner's registry, which drives the list badges.
func NewModel(ctx context.Context, manager *mods.Manager, scanner *conflict.Scanner, enabledOnly bool) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(styles.Primary).
		BorderForeground(styles.Primary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(styles.Muted).
		BorderForeground(styles.Primary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Mods"
	l.Styles.Title = styles.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return Model{
		ctx:         ctx,
		manager:     manager,
		scanner:     scanner,
		list:        l,
		spinner:     s,
		keys:        DefaultKeyMap(),
		state:       viewList,
		enabledOnly: enabledOnly,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadMods,
		m.spinner.Tick,
	)
}

// Messages
type modsLoadedMsg struct {
	mods []*mods.Mod
}

type scanDoneMsg struct {
	result *conflict.ModConflictResult
	err    error
}

type errMsg struct {
	err error
}

type operationCompleteMsg struct {
	success bool
	message string
}

func (m Model) loadMods() tea.Msg {
	found, err := m.manager.List()
	if err != nil {
		return errMsg{err}
	}
	return modsLoadedMsg{found}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := styles.App.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		if key.Matches(msg, m.keys.Quit) {
			if m.state == viewList || m.state == viewProgress {
				return m, tea.Quit
			}
			m.state = viewList
			return m, nil
		}

		switch m.state {
		case viewList:
			return m.updateList(msg)
		case viewInfo:
			if key.Matches(msg, m.keys.Back, m.keys.Info) {
				m.state = viewList
				m.selected = nil
			}
			return m, nil
		case viewProgress:
			return m, nil
		}

	case modsLoadedMsg:
		m.list.SetItems(m.items(msg.mods))
		return m, nil

	case scanDoneMsg:
		m.state = viewList
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			return m, nil
		}
		m.result = msg.result
		m.errorMsg = ""
		m.statusMsg = fmt.Sprintf("%d conflicting assets across %d mods (%s)",
			msg.result.ConflictAssets, msg.result.ScannedMods, msg.result.Mode)
		if n := len(msg.result.Degraded()); n > 0 {
			m.statusMsg += fmt.Sprintf(", %d degraded", n)
		}
		return m, m.loadMods

	case errMsg:
		m.errorMsg = msg.err.Error()
		m.state = viewList
		return m, nil

	case operationCompleteMsg:
		if msg.success {
			m.statusMsg = msg.message
			m.errorMsg = ""
		} else {
			m.errorMsg = msg.message
		}
		m.state = viewList
		return m, m.loadMods

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// items builds list items, attaching the registry counts of the last scan
func (m Model) items(found []*mods.Mod) []list.Item {
	reg := m.scanner.Registry()
	items := make([]list.Item, len(found))
	for i, mod := range found {
		n, ok := reg.Count(mod.Name)
		items[i] = modItem{mod: mod, conflicts: n, scanned: ok}
	}
	return items
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Scan):
		m.state = viewProgress
		m.progressMsg = "Scanning mods (" + conflict.ModeDescription(m.enabledOnly) + ")..."
		return m, m.scan()

	case key.Matches(msg, m.keys.ToggleAll):
		m.enabledOnly = !m.enabledOnly
		m.statusMsg = "Next scan: " + conflict.ModeDescription(m.enabledOnly)
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if item, ok := m.list.SelectedItem().(modItem); ok {
			m.state = viewProgress
			m.progressMsg = "Moving " + item.mod.Name + "..."
			return m, m.toggleMod(item.mod)
		}
		return m, nil

	case key.Matches(msg, m.keys.Info):
		if item, ok := m.list.SelectedItem().(modItem); ok {
			m.selected = item.mod
			m.state = viewInfo
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadMods
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Commands

func (m Model) scan() tea.Cmd {
	enabledOnly := m.enabledOnly
	return func() tea.Msg {
		found, err := m.manager.List()
		if err != nil {
			return scanDoneMsg{err: err}
		}
		result, err := m.scanner.Scan(m.ctx, conflict.Request{
			Mods:        mods.Descriptors(found),
			EnabledRoot: m.manager.EnabledRoot(),
			BackupRoot:  m.manager.BackupRoot(),
			EnabledOnly: enabledOnly,
		})
		return scanDoneMsg{result: result, err: err}
	}
}

func (m Model) toggleMod(mod *mods.Mod) tea.Cmd {
	return func() tea.Msg {
		var err error
		verb := "disabled"
		if mod.Status == conflict.StatusEnabled {
			err = m.manager.Disable(mod.Name)
		} else {
			verb = "enabled"
			err = m.manager.Enable(mod.Name)
		}
		if err != nil {
			return operationCompleteMsg{false, err.Error()}
		}
		return operationCompleteMsg{true, fmt.Sprintf("Mod %s %s, rescan to refresh conflicts", mod.Name, verb)}
	}
}

// View renders the UI
func (m Model) View() string {
	var content string

	switch m.state {
	case viewList:
		content = m.viewList()
	case viewProgress:
		content = m.spinner.View() + " " + m.progressMsg
	case viewInfo:
		content = m.viewInfo()
	}

	return styles.App.Render(content)
}

func (m Model) viewList() string {
	var s strings.Builder

	s.WriteString(m.list.View())

	if m.errorMsg != "" {
		s.WriteString("\n" + styles.FormatError(m.errorMsg))
	} else if m.statusMsg != "" {
		s.WriteString("\n" + styles.FormatSuccess(m.statusMsg))
	}

	s.WriteString("\n" + styles.Help.Render("s:scan  a:toggle backups  e:enable/disable  enter:conflicts  r:reload  q:quit"))

	return s.String()
}

func (m Model) viewInfo() string {
	var s strings.Builder

	if m.selected == nil {
		return "No mod selected"
	}
	mod := m.selected

	s.WriteString(styles.Title.Render("Mod Conflicts") + "\n\n")
	s.WriteString(styles.ModName.Render(mod.Name) + "\n")
	if mod.DisplayName != "" && mod.DisplayName != mod.Name {
		s.WriteString(styles.MutedText.Render(mod.DisplayName) + "\n")
	}
	s.WriteString("\n")

	s.WriteString(fmt.Sprintf("Status:    %s\n", styles.FormatModStatus(string(mod.Status))))
	if mod.Revision != "" {
		s.WriteString(fmt.Sprintf("Revision:  %s\n", mod.Revision))
	}
	s.WriteString(fmt.Sprintf("Path:      %s\n\n", mod.Path))

	s.WriteString(m.conflictDetail(mod))

	s.WriteString("\n" + styles.Help.Render("esc/enter:back"))

	return s.String()
}

func (m Model) conflictDetail(mod *mods.Mod) string {
	if m.result == nil {
		return styles.MutedText.Render("Not scanned yet, press s in the list") + "\n"
	}

	summary, ok := m.result.Summary(mod.Name)
	if !ok {
		return styles.MutedText.Render("Not part of the last scan ("+m.result.Mode+")") + "\n"
	}
	if summary.ConflictCount == 0 {
		return styles.FormatSuccess("No conflicts") + "\n"
	}

	var s strings.Builder
	s.WriteString(styles.FormatConflictBadge(summary.ConflictCount, true) + "\n\n")

	others := make(map[string][]string, len(summary.Sample))
	for _, c := range m.result.Conflicts {
		for _, owner := range c.Mods {
			if strings.EqualFold(owner, mod.Name) {
				others[c.Asset] = c.Mods
				break
			}
		}
	}

	for _, asset := range summary.Sample {
		s.WriteString(styles.Bullet.String() + " " + styles.AssetPath.Render(asset))
		var with []string
		for _, owner := range others[asset] {
			if !strings.EqualFold(owner, mod.Name) {
				with = append(with, owner)
			}
		}
		if len(with) > 0 {
			s.WriteString(styles.MutedText.Render("  also in " + strings.Join(with, ", ")))
		}
		s.WriteString("\n")
	}
	if rest := summary.ConflictCount - len(summary.Sample); rest > 0 {
		s.WriteString(styles.MutedText.Render(fmt.Sprintf("  ... and %d more", rest)) + "\n")
	}

	return s.String()
}
