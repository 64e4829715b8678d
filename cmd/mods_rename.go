package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/modscan/internal/ui/progress"
)

var modsRenameCmd = &cobra.Command{
	Use:   "rename <name> [display-name]",
	Short: "Set the display name of a mod",
	Long: `Set the name shown for a mod in listings. The folder is not renamed.
Omit the display name to reset it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		display := ""
		if len(args) == 2 {
			display = args[1]
		}

		if err := manager.Rename(args[0], display); err != nil {
			return err
		}

		if display == "" {
			progress.PrintSuccess("Display name reset for " + args[0])
		} else {
			progress.PrintSuccess(args[0] + " is now shown as " + display)
		}
		return nil
	},
}

func init() {
	modsCmd.AddCommand(modsRenameCmd)
}
