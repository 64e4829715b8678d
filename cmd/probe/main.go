// probe is the headless conflict scanner for batch use.
// It reads modscan-probe.json, scans the enabled mods and writes a
// timestamped report into the mod directory.
//
// Exit codes: 0 success, 2 missing or invalid config, 3 invalid mod path,
// 1 any other failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/charmbracelet/log"

	"github.com/bnema/modscan/internal/assets"
	"github.com/bnema/modscan/internal/config"
	"github.com/bnema/modscan/internal/conflict"
	"github.com/bnema/modscan/internal/container"
	"github.com/bnema/modscan/internal/mods"
	"github.com/bnema/modscan/internal/report"
	"github.com/bnema/modscan/internal/ui/progress"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitConfig    = 2
	exitBadModDir = 3
)

var version = "dev"

func main() {
	configPath := flag.String("config", config.ProbeConfigFile, "Path to the probe config (JSON or YAML)")
	quiet := flag.Bool("quiet", false, "Disable the progress bar")
	verbose := flag.Bool("verbose", false, "Log scan details to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, *configPath, *quiet, *verbose))
}

func run(ctx context.Context, configPath string, quiet, verbose bool) int {
	cfg, err := config.LoadProbe(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return exitCode(err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "probe",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	fmt.Println("=== Mod Conflict Probe ===")
	fmt.Printf("Mod path: %s\n", cfg.ModPath)

	found, err := mods.Discover(cfg.ModPath, cfg.BackupPath, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return exitFailure
	}

	command := cfg.ReaderCommand
	if len(command) == 0 {
		command = container.DefaultCommand
	}
	enumerator := assets.NewEnumerator(container.NewExecFactory(command, logger), logger)

	var observer conflict.Observer = conflict.NopObserver{}
	if !quiet {
		observer = &barObserver{}
	}

	scanner := conflict.NewScanner(enumerator,
		conflict.WithObserver(observer),
		conflict.WithLogger(logger),
		conflict.WithWorkers(cfg.Workers),
	)

	result, err := scanner.Scan(ctx, conflict.Request{
		Mods:        mods.Descriptors(found),
		EnabledRoot: cfg.ModPath,
		BackupRoot:  cfg.BackupPath,
		EnabledOnly: true,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("Error: scan cancelled")
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		return exitFailure
	}

	printSummary(result)

	env := report.New("modscan-probe", version, cfg.ModPath, cfg.BackupPath, result)
	path, err := report.WriteTimestamped(cfg.ModPath, env)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return exitFailure
	}
	fmt.Printf("Report: %s\n", path)

	return exitOK
}

// exitCode maps a config load failure to the probe exit code
func exitCode(err error) int {
	switch config.Code(err) {
	case config.ErrCodeNotFound, config.ErrCodeInvalid, config.ErrCodeMissingPath:
		return exitConfig
	case config.ErrCodeBadModPath:
		return exitBadModDir
	default:
		return exitFailure
	}
}

func printSummary(result *conflict.ModConflictResult) {
	fmt.Println()
	fmt.Printf("Mode: %s\n", result.Mode)
	fmt.Printf("Scanned %d mod(s), %d asset(s), %d conflicting asset(s) in %s\n",
		result.ScannedMods, result.TotalAssets, result.ConflictAssets, result.Elapsed.Round(time.Millisecond))

	for _, o := range result.Outcomes {
		if w := progress.OutcomeWarning(o); w != "" {
			fmt.Printf("Warning: %s\n", w)
		}
	}

	for _, s := range result.Summaries {
		if s.ConflictCount == 0 {
			continue
		}
		fmt.Printf("  %s: %d conflict(s)\n", s.RealName, s.ConflictCount)
		for _, asset := range s.Sample {
			fmt.Printf("    - %s\n", asset)
		}
	}
}

// barObserver draws a text progress bar on stderr
type barObserver struct {
	bar *pb.ProgressBar
}

func (o *barObserver) OnScanStart(total int, mode string) {
	o.bar = pb.New(total).SetWriter(os.Stderr)
	o.bar.Set("prefix", mode+" ")
	o.bar.Start()
}

func (o *barObserver) OnModStart(int, int, conflict.ModDescriptor) {}

func (o *barObserver) OnModDone(int, int, conflict.ModOutcome) {
	if o.bar != nil {
		o.bar.Increment()
	}
}

func (o *barObserver) OnScanDone(*conflict.ModConflictResult) {
	if o.bar != nil {
		o.bar.Finish()
	}
}
