package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - coherent with charmbracelet style
var (
	Primary   = lipgloss.Color("#7D56F4") // Purple (charmbracelet brand)
	Secondary = lipgloss.Color("#FF79C6") // Pink accent
	Success   = lipgloss.Color("#50FA7B") // Green
	Warning   = lipgloss.Color("#FFB86C") // Orange
	Error     = lipgloss.Color("#FF5555") // Red
	Muted     = lipgloss.Color("#6272A4") // Muted blue-gray
	Text      = lipgloss.Color("#F8F8F2") // Light text
	Subtle    = lipgloss.Color("#44475A") // Dark background accent
)

// Base styles
var (
	// Title style for headers
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFDF5")).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	// Subtitle style
	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Normal text
	NormalText = lipgloss.NewStyle().
			Foreground(Text)

	// Muted text
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// Success text
	SuccessText = lipgloss.NewStyle().
			Foreground(Success)

	// Warning text
	WarningText = lipgloss.NewStyle().
			Foreground(Warning)

	// Error text
	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	// Highlighted (focused)
	Highlighted = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// App container
	App = lipgloss.NewStyle().
		Padding(1, 2)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted)

	// Spinner
	Spinner = lipgloss.NewStyle().
		Foreground(Primary)
)

// Symbols
var (
	CheckMark = lipgloss.NewStyle().Foreground(Success).SetString("✓")
	CrossMark = lipgloss.NewStyle().Foreground(Error).SetString("✗")
	Bullet    = lipgloss.NewStyle().Foreground(Primary).SetString("•")
	Arrow     = lipgloss.NewStyle().Foreground(Primary).SetString("→")
)

// Mod list styles
var (
	ModName = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	ModEnabled = lipgloss.NewStyle().
			Foreground(Success)

	ModBackedUp = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	ModRevision = lipgloss.NewStyle().
			Foreground(Muted)

	// ConflictBadge marks a mod that overrides assets of another mod
	ConflictBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(Warning).
			Bold(true).
			Padding(0, 1)

	// CleanBadge marks a mod with no conflicts in the last scan
	CleanBadge = lipgloss.NewStyle().
			Foreground(Success)

	// AssetPath for conflicting asset identifiers
	AssetPath = lipgloss.NewStyle().
			Foreground(Secondary)
)

// FormatModStatus returns a styled status indicator
func FormatModStatus(status string) string {
	if status == "enabled" {
		return ModEnabled.Render("enabled")
	}
	return ModBackedUp.Render(status)
}

// FormatConflictBadge renders the conflict count of a mod. Unknown counts
// (no scan yet) render as an empty string.
func FormatConflictBadge(count int, known bool) string {
	if !known {
		return ""
	}
	if count == 0 {
		return CleanBadge.Render("no conflicts")
	}
	if count == 1 {
		return ConflictBadge.Render("1 conflict")
	}
	return ConflictBadge.Render(fmt.Sprintf("%d conflicts", count))
}

// FormatRevision formats a short git revision
func FormatRevision(rev string) string {
	if rev == "" {
		return ""
	}
	return ModRevision.Render("@" + rev)
}

// FormatSuccess formats a success message
func FormatSuccess(msg string) string {
	return CheckMark.String() + " " + SuccessText.Render(msg)
}

// FormatError formats an error message
func FormatError(msg string) string {
	return CrossMark.String() + " " + ErrorText.Render(msg)
}

// FormatWarning formats a warning message
func FormatWarning(msg string) string {
	return WarningText.Render("! " + msg)
}
