package conflict

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/modscan/internal/assets"
)

// Index maps each asset identifier to the set of mods providing it
type Index struct {
	entries map[string]*indexEntry
	total   int
}

type indexEntry struct {
	asset  string            // first spelling seen
	owners map[string]string // mod identity -> RealName
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{entries: make(map[string]*indexEntry)}
}

// Add records realName as a provider of every asset in set
func (ix *Index) Add(realName string, set *assets.Set) {
	if set == nil {
		return
	}
	owner := identity(realName)
	for _, a := range set.Items() {
		key := assets.Key(a)
		e, ok := ix.entries[key]
		if !ok {
			e = &indexEntry{asset: a, owners: make(map[string]string, 1)}
			ix.entries[key] = e
		}
		if _, dup := e.owners[owner]; !dup {
			e.owners[owner] = realName
		}
	}
	ix.total += set.Len()
}

// Len returns the number of distinct assets
func (ix *Index) Len() int {
	return len(ix.entries)
}

// TotalSeen returns the number of identifiers added, summed over mods
func (ix *Index) TotalSeen() int {
	return ix.total
}

// Owners returns the mods providing asset, sorted
func (ix *Index) Owners(asset string) []string {
	e, ok := ix.entries[assets.Key(asset)]
	if !ok {
		return nil
	}
	return e.sortedOwners()
}

func (e *indexEntry) sortedOwners() []string {
	names := make([]string, 0, len(e.owners))
	for _, n := range e.owners {
		names = append(names, n)
	}
	sortNames(names)
	return names
}

func sortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return assets.Less(names[i], names[j])
	})
}

// DirResolver maps a mod to the directory holding its files
type DirResolver func(ModDescriptor) (string, error)

// EnumerateFunc lists the assets of one mod directory
type EnumerateFunc func(ctx context.Context, dir string) (assets.Enumeration, error)

// BuildOptions tunes BuildIndex
type BuildOptions struct {
	// Workers > 1 enumerates mods concurrently. Merging stays in caller order.
	Workers  int
	Observer Observer
	Logger   *log.Logger
}

type modResult struct {
	outcome ModOutcome
	set     *assets.Set
}

// BuildIndex enumerates every mod and accumulates the conflict index.
// A failing mod is recorded in its outcome and skipped. Cancellation
// aborts the whole build and no index is returned.
func BuildIndex(ctx context.Context, mods []ModDescriptor, resolve DirResolver, enumerate EnumerateFunc, opts BuildOptions) (*Index, []ModOutcome, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}

	var (
		results []modResult
		err     error
	)
	if opts.Workers > 1 && len(mods) > 1 {
		results, err = enumerateParallel(ctx, mods, resolve, enumerate, opts)
	} else {
		results, err = enumerateSequential(ctx, mods, resolve, enumerate, opts)
	}
	if err != nil {
		return nil, nil, err
	}

	ix := NewIndex()
	outcomes := make([]ModOutcome, 0, len(results))
	for i, r := range results {
		ix.Add(mods[i].RealName, r.set)
		outcomes = append(outcomes, r.outcome)
	}

	return ix, outcomes, nil
}

func enumerateSequential(ctx context.Context, mods []ModDescriptor, resolve DirResolver, enumerate EnumerateFunc, opts BuildOptions) ([]modResult, error) {
	results := make([]modResult, len(mods))
	for i, m := range mods {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan cancelled before %s: %w", m.RealName, err)
		}

		opts.Observer.OnModStart(i, len(mods), m)
		out, set, err := processMod(ctx, m, resolve, enumerate, opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("scan cancelled during %s: %w", m.RealName, err)
		}
		opts.Observer.OnModDone(i, len(mods), out)

		results[i] = modResult{outcome: out, set: set}
	}
	return results, nil
}

func enumerateParallel(ctx context.Context, mods []ModDescriptor, resolve DirResolver, enumerate EnumerateFunc, opts BuildOptions) ([]modResult, error) {
	results := make([]modResult, len(mods))

	// observer calls are serialized; with workers they arrive in completion order
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, m := range mods {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("scan cancelled before %s: %w", m.RealName, err)
			}

			mu.Lock()
			opts.Observer.OnModStart(i, len(mods), m)
			mu.Unlock()

			out, set, err := processMod(gctx, m, resolve, enumerate, opts.Logger)
			if err != nil {
				return fmt.Errorf("scan cancelled during %s: %w", m.RealName, err)
			}

			mu.Lock()
			opts.Observer.OnModDone(i, len(mods), out)
			mu.Unlock()

			results[i] = modResult{outcome: out, set: set}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}
	return results, nil
}

// processMod enumerates one mod. It only returns an error for
// cancellation; every other failure ends up in the outcome.
func processMod(ctx context.Context, m ModDescriptor, resolve DirResolver, enumerate EnumerateFunc, logger *log.Logger) (out ModOutcome, set *assets.Set, err error) {
	start := time.Now()
	out = ModOutcome{RealName: m.RealName, Source: assets.SourceNone}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Mod processing panicked", "mod", m.RealName, "panic", r)
			out.Status = OutcomeFailed
			out.Reason = fmt.Sprintf("panic: %v", r)
			out.Assets = 0
			set = nil
			err = nil
		}
		out.Elapsed = time.Since(start)
	}()

	dir, rerr := resolve(m)
	if rerr != nil {
		logger.Warn("Failed to resolve mod directory", "mod", m.RealName, "error", rerr)
		out.Status = OutcomeFailed
		out.Reason = rerr.Error()
		return out, nil, nil
	}
	out.Dir = dir

	en, eerr := enumerate(ctx, dir)
	if eerr != nil {
		if cerr := ctx.Err(); cerr != nil && errors.Is(eerr, cerr) {
			return out, nil, eerr
		}
		logger.Warn("Failed to enumerate mod", "mod", m.RealName, "dir", dir, "error", eerr)
		out.Status = OutcomeFailed
		out.Reason = eerr.Error()
		return out, nil, nil
	}

	out.Status = OutcomeOK
	if en.StructuredReason == assets.ReasonMissingDir {
		out.Status = OutcomeMissing
		logger.Debug("Mod directory missing", "mod", m.RealName, "dir", dir)
	}
	out.Source = en.Source
	out.StructuredReason = en.StructuredReason
	out.Assets = en.Assets.Len()
	if en.StructuredErr != nil {
		out.Reason = strings.TrimSpace(en.StructuredErr.Error())
	}

	logger.Debug("Enumerated mod", "mod", m.RealName, "assets", out.Assets, "source", out.Source)
	return out, en.Assets, nil
}
