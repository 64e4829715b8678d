package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/modscan/internal/report"
	"github.com/bnema/modscan/internal/ui/progress"
)

var (
	reportJSON    bool
	reportDetails bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect saved scan reports",
}

var reportShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a saved scan report",
	Long: `Print a saved scan report. Without a file, the newest report in the
report directory is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 && args[0] != "latest" {
			path = args[0]
		} else {
			latest, err := report.Latest(cfg.Report.Dir)
			if err != nil {
				return err
			}
			path = latest
		}

		env, err := report.Load(path)
		if err != nil {
			return err
		}

		if reportJSON {
			return writeJSON(os.Stdout, env)
		}

		progress.PrintDetail(fmt.Sprintf("%s (%s %s, %s)", path, env.Tool, env.Version, env.GeneratedAt.Local().Format("2006-01-02 15:04:05")))
		printResult(env.Result, reportDetails)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportShowCmd.Flags().BoolVar(&reportJSON, "json", false, "Output as JSON")
	reportShowCmd.Flags().BoolVarP(&reportDetails, "details", "d", false, "List every conflicting asset")
}
