package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bnema/modscan/internal/conflict"
	"github.com/bnema/modscan/internal/report"
	"github.com/bnema/modscan/internal/ui/progress"
	"github.com/bnema/modscan/internal/ui/styles"
)

// printResult renders a scan result for humans. With details every
// conflicting asset is listed, otherwise only the per-mod samples.
func printResult(result *conflict.ModConflictResult, details bool) {
	progress.PrintTitle("Conflict scan: " + result.Mode)

	fmt.Printf("  Mods scanned:      %d\n", result.ScannedMods)
	fmt.Printf("  Assets seen:       %d\n", result.TotalAssets)
	fmt.Printf("  Conflicting:       %d\n", result.ConflictAssets)
	fmt.Printf("  Elapsed:           %s\n", result.Elapsed.Round(time.Millisecond))

	progress.PrintOutcomeWarnings(result.Outcomes)

	if result.ConflictAssets == 0 {
		progress.PrintNewline()
		fmt.Println(styles.FormatSuccess("No conflicts found"))
		return
	}

	progress.PrintNewline()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
		styles.Title.Render("MOD"),
		styles.Title.Render("CONFLICTS"),
		styles.Title.Render("SAMPLE"),
	)
	for _, s := range result.Summaries {
		if s.ConflictCount == 0 {
			continue
		}
		sample := strings.Join(s.Sample, ", ")
		if extra := s.ConflictCount - len(s.Sample); extra > 0 {
			sample += fmt.Sprintf(" (+%d)", extra)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", s.RealName, s.ConflictCount, styles.MutedText.Render(sample))
	}
	_ = w.Flush()

	if details {
		progress.PrintNewline()
		for _, c := range result.Conflicts {
			fmt.Printf("  %s %s\n", styles.Bullet.String(), styles.AssetPath.Render(c.Asset))
			progress.PrintDetail(strings.Join(c.Mods, ", "))
		}
	}

	clean := 0
	for _, s := range result.Summaries {
		if s.ConflictCount == 0 {
			clean++
		}
	}
	progress.PrintSummary("%d mod(s) without conflicts", clean)
}

// writeJSON prints v as indented JSON
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newEnvelope wraps a result for saving or JSON output
func newEnvelope(result *conflict.ModConflictResult, enabledOnly bool) *report.Envelope {
	backupRoot := cfg.BackupRoot
	if enabledOnly {
		backupRoot = ""
	}
	return report.New("modscan", version, cfg.EnabledRoot, backupRoot, result)
}
