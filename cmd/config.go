package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bnema/modscan/internal/config"
	"github.com/bnema/modscan/internal/ui/progress"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file from defaults and flags",
	Long: `Write the effective configuration (defaults, environment and flags)
to the config file.

Example:
  modscan config init --enabled-root ~/Game/Mods --backup-root ~/Game/Mods.off`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}

		if err := config.SaveToFile(cfg, path); err != nil {
			return err
		}

		progress.PrintSuccess("Wrote " + path)
		if cfg.EnabledRoot == "" {
			progress.PrintWarning("enabled_root is empty, edit the file or pass --enabled-root")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")
}
