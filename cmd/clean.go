package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/modscan/internal/mods"
	"github.com/bnema/modscan/internal/report"
	"github.com/bnema/modscan/internal/ui/progress"
)

var (
	cleanKeep int
	cleanAll  bool
)

var cleanCmd = &cobra.Command{
	Use:     "clean",
	Aliases: []string{"c"},
	Short:   "Remove old scan reports",
	Long: `Remove saved scan reports, keeping the newest ones.

Use --all to also remove the mod catalog (display names).
Mod directories are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		progress.PrintTitle("Cleaning modscan data")

		keep := cleanKeep
		if cleanAll {
			keep = 0
		}

		progress.PrintInProgress("Removing reports")
		removed, err := report.Prune(cfg.Report.Dir, keep)
		if err != nil {
			return fmt.Errorf("failed to clean reports: %w", err)
		}
		progress.PrintComplete(fmt.Sprintf("Removed %d report(s)", len(removed)))
		if keep > 0 {
			progress.PrintDetail(fmt.Sprintf("Kept the newest %d in %s", keep, cfg.Report.Dir))
		}

		if cleanAll {
			catalog := filepath.Join(cfg.DataDir, mods.CatalogFile)
			if err := os.Remove(catalog); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove catalog: %w", err)
			}
			progress.PrintComplete("Catalog removed")
		}

		progress.PrintNewline()
		progress.PrintSuccess("Clean complete")
		return nil
	},
}

func init() {
	cleanCmd.Flags().IntVarP(&cleanKeep, "keep", "k", 5, "Number of newest reports to keep")
	cleanCmd.Flags().BoolVarP(&cleanAll, "all", "a", false, "Remove every report and the mod catalog")
	rootCmd.AddCommand(cleanCmd)
}
