package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/modscan/internal/ui/progress"
)

var modsEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Move a backed-up mod into the enabled root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		if err := manager.Enable(args[0]); err != nil {
			return err
		}

		progress.PrintSuccess("Enabled " + args[0])
		progress.PrintDetail("Run modscan scan to refresh conflicts")
		return nil
	},
}

func init() {
	modsCmd.AddCommand(modsEnableCmd)
}
