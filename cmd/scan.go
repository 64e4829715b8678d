package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bnema/modscan/internal/conflict"
	"github.com/bnema/modscan/internal/logger"
	"github.com/bnema/modscan/internal/mods"
	"github.com/bnema/modscan/internal/report"
	"github.com/bnema/modscan/internal/ui/progress"
	"github.com/bnema/modscan/internal/ui/styles"
	"github.com/bnema/modscan/internal/watch"
)

var (
	scanAll      bool
	scanJSON     bool
	scanWatch    bool
	scanDetails  bool
	scanNoReport bool
	scanWorkers  int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan mods for asset conflicts",
	Long: `Scan mods and report assets provided by more than one mod.

Archives (.pak, .utoc) are listed with the configured reader command
(repak by default). Mods without readable archives fall back to their
loose .uasset/.umap files. Every file on disk counts; only .git/ is skipped.

Each scan is saved as a timestamped JSON report in the report directory.

Examples:
  modscan scan                 # Enabled mods only
  modscan scan --all           # Include backed-up mods
  modscan scan --json          # Machine-readable output
  modscan scan --watch         # Rescan when mod files change
  modscan scan --workers 4     # Enumerate 4 mods at a time`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVarP(&scanAll, "all", "a", false, "Include backed-up mods")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output the report as JSON")
	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false, "Rescan when files under the mod roots change")
	scanCmd.Flags().BoolVarP(&scanDetails, "details", "d", false, "List every conflicting asset")
	scanCmd.Flags().BoolVar(&scanNoReport, "no-report", false, "Do not save a report file")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Mods enumerated concurrently (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	enabledOnly := cfg.EnabledOnly && !scanAll
	ctx := cmd.Context()

	interactive := !scanJSON && !scanWatch && isatty.IsTerminal(os.Stdout.Fd())

	var result *conflict.ModConflictResult
	if interactive {
		result, err = scanWithProgress(ctx, manager, enabledOnly)
	} else {
		result, err = scanOnce(ctx, manager, enabledOnly, nil)
	}
	if err != nil {
		return err
	}

	if err := emit(result, enabledOnly); err != nil {
		return err
	}

	if !scanWatch {
		return nil
	}

	roots := []string{cfg.EnabledRoot}
	if !enabledOnly {
		roots = append(roots, cfg.BackupRoot)
	}
	if !scanJSON {
		progress.PrintInProgress("Watching for changes (Ctrl+C to stop)...")
	}

	w := watch.New(roots, watch.DefaultDebounce, logger.For("watch"))
	err = w.Run(ctx, func(ctx context.Context) {
		result, err := scanOnce(ctx, manager, enabledOnly, nil)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Rescan failed", "error", err)
				fmt.Fprintln(os.Stderr, styles.FormatError(err.Error()))
			}
			return
		}
		if err := emit(result, enabledOnly); err != nil {
			logger.Error("Failed to output scan", "error", err)
		}
	})
	if errors.Is(err, watch.ErrNoRoots) {
		return fmt.Errorf("cannot watch: no mod root exists yet")
	}
	return err
}

// scanOnce discovers mods and runs one scan
func scanOnce(ctx context.Context, manager *mods.Manager, enabledOnly bool, observer conflict.Observer) (*conflict.ModConflictResult, error) {
	found, err := manager.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list mods: %w", err)
	}

	scanner := newScanner(scanWorkers, observer)

	return scanner.Scan(ctx, conflict.Request{
		Mods:        mods.Descriptors(found),
		EnabledRoot: manager.EnabledRoot(),
		BackupRoot:  manager.BackupRoot(),
		EnabledOnly: enabledOnly,
	})
}

// scanWithProgress runs the scan behind the multi-step progress display.
// Quitting the display cancels the scan.
func scanWithProgress(ctx context.Context, manager *mods.Manager, enabledOnly bool) (*conflict.ModConflictResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := progress.NewModel("Scanning mods ("+conflict.ModeDescription(enabledOnly)+")",
		"Discovering mods",
		"Enumerating assets",
	).OnQuit(cancel)
	p := tea.NewProgram(m)

	var (
		result  *conflict.ModConflictResult
		scanErr error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)

		p.Send(progress.StartStepMsg{})
		found, err := manager.List()
		if err != nil {
			scanErr = fmt.Errorf("failed to list mods: %w", err)
			p.Send(progress.FailStepMsg{Err: scanErr})
			return
		}
		p.Send(progress.CompleteStepMsg{})

		result, scanErr = newScanner(scanWorkers, progress.NewScanObserver(p)).Scan(ctx, conflict.Request{
			Mods:        mods.Descriptors(found),
			EnabledRoot: manager.EnabledRoot(),
			BackupRoot:  manager.BackupRoot(),
			EnabledOnly: enabledOnly,
		})
		if scanErr != nil {
			p.Send(progress.FailStepMsg{Err: scanErr})
		}
	}()

	finalModel, err := p.Run()
	cancel()
	<-finished
	if err != nil {
		return nil, err
	}

	fm := finalModel.(progress.Model)
	if fm.Aborted() {
		return nil, context.Canceled
	}
	if fm.GetError() != nil {
		return nil, fm.GetError()
	}
	return result, scanErr
}

// emit prints the result and saves the report
func emit(result *conflict.ModConflictResult, enabledOnly bool) error {
	env := newEnvelope(result, enabledOnly)

	if !scanNoReport {
		path, err := report.WriteTimestamped(cfg.Report.Dir, env)
		if err != nil {
			logger.Warn("Failed to save report", "error", err)
			if !scanJSON {
				progress.PrintWarning("Report not saved: " + err.Error())
			}
		} else {
			logger.Info("Report saved", "path", path)
			if !scanJSON {
				defer progress.PrintDetail("Report saved to " + path)
			}
		}
	}

	if scanJSON {
		return writeJSON(os.Stdout, env)
	}

	printResult(result, scanDetails)
	return nil
}
