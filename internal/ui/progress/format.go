package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/bnema/modscan/internal/conflict"
	"github.com/bnema/modscan/internal/ui/styles"
)

// Out receives every Print* line
var Out io.Writer = os.Stdout

func printLine(icon, text string) {
	_, _ = fmt.Fprintf(Out, "  %s %s\n", icon, text)
}

// PrintInProgress prints a running step without animation
func PrintInProgress(message string) {
	printLine(StyledIcon(StateInProgress), StepStyle(StateInProgress).Render(message))
}

// PrintComplete prints a finished step
func PrintComplete(message string) {
	printLine(StyledIcon(StateComplete), StepStyle(StateComplete).Render(message))
}

// PrintSuccess is PrintComplete for final messages
func PrintSuccess(message string) {
	PrintComplete(message)
}

func PrintError(message string) {
	printLine(StyledIcon(StateError), StepStyle(StateError).Render(message))
}

func PrintWarning(message string) {
	printLine(WarningIcon(), styles.WarningText.Render(message))
}

// PrintTitle prints a bold header followed by a blank line
func PrintTitle(title string) {
	_, _ = fmt.Fprintf(Out, "%s\n\n", styles.NormalText.Bold(true).Render(title))
}

// PrintDetail prints a muted line under the previous step
func PrintDetail(detail string) {
	_, _ = fmt.Fprintf(Out, "      %s\n", styles.MutedText.Render(detail))
}

// PrintSummary prints a muted closing line
func PrintSummary(format string, args ...any) {
	_, _ = fmt.Fprintf(Out, "\n  %s\n", styles.MutedText.Render(fmt.Sprintf(format, args...)))
}

func PrintNewline() {
	_, _ = fmt.Fprintln(Out)
}

// PrintOutcomeWarnings prints one warning per problematic mod and returns
// how many were printed
func PrintOutcomeWarnings(outcomes []conflict.ModOutcome) int {
	n := 0
	for _, o := range outcomes {
		if w := OutcomeWarning(o); w != "" {
			PrintWarning(w)
			n++
		}
	}
	return n
}

// FormatCount formats a progress count like "3/12"
func FormatCount(current, total int) string {
	return fmt.Sprintf("%d/%d", current, total)
}
