package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bnema/modscan/internal/ui/styles"
)

var modsListJSON bool

var modsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List mods",
	Long: `List every mod under the enabled and backup roots.

The CONFLICTS column shows the counts of the newest saved scan report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		found, err := manager.List()
		if err != nil {
			return fmt.Errorf("failed to list mods: %w", err)
		}

		if modsListJSON {
			return writeJSON(os.Stdout, found)
		}

		if len(found) == 0 {
			fmt.Println("No mods found in " + manager.EnabledRoot())
			return nil
		}

		seedRegistry()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			styles.Title.Render("NAME"),
			styles.Title.Render("STATUS"),
			styles.Title.Render("REVISION"),
			styles.Title.Render("CONFLICTS"),
		)

		for _, m := range found {
			name := m.Name
			if m.DisplayName != m.Name {
				name = m.DisplayName + " (" + m.Name + ")"
			}
			rev := m.Revision
			if rev == "" {
				rev = "-"
			}
			n, ok := registry.Count(m.Name)
			badge := styles.FormatConflictBadge(n, ok)
			if badge == "" {
				badge = styles.MutedText.Render("not scanned")
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, styles.FormatModStatus(string(m.Status)), rev, badge)
		}

		_ = w.Flush()
		fmt.Printf("\nTotal: %d mod(s)\n", len(found))

		return nil
	},
}

func init() {
	modsCmd.AddCommand(modsListCmd)
	modsListCmd.Flags().BoolVar(&modsListJSON, "json", false, "Output as JSON")
}
