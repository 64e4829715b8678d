package cmd

import (
	"github.com/spf13/cobra"
)

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "Manage installed mods",
	Long: `List mods and move them between the enabled and backup roots.

Without a subcommand, lists all mods.

Examples:
  modscan mods                          # Same as mods list
  modscan mods list --json              # JSON output for scripting
  modscan mods disable BetterWeapons    # Move to the backup root
  modscan mods enable BetterWeapons     # Move back to the enabled root
  modscan mods rename BetterWeapons "Better Weapons v2"`,
	RunE: modsListCmd.RunE,
}

func init() {
	rootCmd.AddCommand(modsCmd)
}
