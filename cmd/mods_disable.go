package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/modscan/internal/ui/progress"
)

var modsDisableCmd = &cobra.Command{
	Use:     "disable <name>",
	Aliases: []string{"backup"},
	Short:   "Move an enabled mod into the backup root",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg != nil && cfg.BackupRoot == "" {
			progress.PrintWarning("backup_root is not set")
		}

		manager, err := newManager()
		if err != nil {
			return err
		}

		if err := manager.Disable(args[0]); err != nil {
			return err
		}

		progress.PrintSuccess("Disabled " + args[0])
		return nil
	},
}

func init() {
	modsCmd.AddCommand(modsDisableCmd)
}
