package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/bnema/modscan/internal/assets"
	"github.com/bnema/modscan/internal/config"
	"github.com/bnema/modscan/internal/conflict"
	"github.com/bnema/modscan/internal/container"
	"github.com/bnema/modscan/internal/logger"
	"github.com/bnema/modscan/internal/mods"
	"github.com/bnema/modscan/internal/report"
)

// Version info set via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

var (
	verbose bool
	cfgFile string
	cfg     *config.Config

	// registry holds the counts of the last scan for the whole process
	registry = conflict.NewRegistry()
)

var rootCmd = &cobra.Command{
	Use:   "modscan",
	Short: "Detect asset conflicts between installed mods",
	Long: `A CLI tool to find mods that override the same game assets.

Mods are folders under an enabled root (loaded by the game) and an optional
backup root (disabled mods). Two mods providing the same asset conflict:
only one of them wins in game.

When run without subcommands, opens an interactive TUI.

Quick start:
  modscan config init --enabled-root ~/Game/Mods --backup-root ~/Game/Mods.off
  modscan scan          Scan enabled mods and print conflicts
  modscan scan --all    Include backed-up mods`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(verbose); err != nil {
			return err
		}

		load := config.Load
		if cmd == configInitCmd {
			load = config.LoadOptional
		}
		loaded, path, err := load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded
		if path != "" {
			logger.Debug("Loaded config", "path", path)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
	RunE: runTUI,
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version+" ("+commit+")"),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().String("enabled-root", "", "Directory holding enabled mods")
	rootCmd.PersistentFlags().String("backup-root", "", "Directory holding backed-up mods")
}

// requireEnabledRoot fails with a hint when no mod root is configured
func requireEnabledRoot() error {
	if cfg == nil || cfg.EnabledRoot == "" {
		return fmt.Errorf("%w: enabled_root is not set (use --enabled-root, MODSCAN_ENABLED_ROOT or modscan config init)", config.ErrInvalidConfig)
	}
	return nil
}

// newManager builds the mod manager from the loaded config
func newManager() (*mods.Manager, error) {
	if err := requireEnabledRoot(); err != nil {
		return nil, err
	}

	manager := mods.NewManager(cfg.EnabledRoot, cfg.BackupRoot, cfg.DataDir, logger.For("mods"))
	if err := manager.Load(); err != nil {
		logger.Warn("Failed to load mod catalog", "error", err)
	}
	return manager, nil
}

// newScanner builds a scanner publishing to the process registry
func newScanner(workers int, observer conflict.Observer) *conflict.Scanner {
	factory := container.NewExecFactory(cfg.Reader.Command, logger.For("reader"))
	enumerator := assets.NewEnumerator(factory, logger.For("assets"))

	if workers < 1 {
		workers = cfg.Workers
	}

	return conflict.NewScanner(enumerator,
		conflict.WithRegistry(registry),
		conflict.WithObserver(observer),
		conflict.WithLogger(logger.For("scan")),
		conflict.WithWorkers(workers),
	)
}

// seedRegistry loads the counts of the newest saved report, so listings
// show conflict badges before any scan in this process.
func seedRegistry() {
	if registry.Len() > 0 || cfg == nil {
		return
	}
	path, err := report.Latest(cfg.Report.Dir)
	if err != nil {
		logger.Debug("No saved report to seed conflict counts", "error", err)
		return
	}
	env, err := report.Load(path)
	if err != nil {
		logger.Warn("Failed to load saved report", "path", path, "error", err)
		return
	}
	registry.Publish(env.Result.Summaries)
	logger.Debug("Seeded conflict counts", "path", path, "mods", registry.Len())
}
