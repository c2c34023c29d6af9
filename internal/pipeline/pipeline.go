// Package pipeline orchestrates one organizing run: scan, resolve, score,
// route, move. Resolution and scoring run concurrently across units; all
// filesystem mutation funnels through a single mover stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/sortarr/internal/events"
	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/internal/organizer"
	"github.com/vmunix/sortarr/internal/probe"
	"github.com/vmunix/sortarr/internal/scanner"
	"github.com/vmunix/sortarr/internal/scoring"
)

// ErrRunInProgress indicates another run holds the source-root lock.
var ErrRunInProgress = errors.New("another run is already in progress")

// lockFileName is created under the source root for the run lock.
const lockFileName = ".sortarr.lock"

// Deps are the collaborators a pipeline needs.
type Deps struct {
	Scanner  *scanner.Scanner
	Resolver *metadata.Resolver
	Scorer   *scoring.Scorer
	Router   *organizer.Router
	Executor *organizer.Executor
	Ledger   *organizer.Ledger
	Tagger   organizer.Tagger
	Prober   probe.Prober
	Bus      *events.Bus
}

// Pipeline runs the organizing stages over one source tree.
type Pipeline struct {
	deps       Deps
	sourceRoot string
	workers    int
	log        *slog.Logger
}

// New creates a pipeline.
func New(deps Deps, sourceRoot string, workers int, log *slog.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	if deps.Tagger == nil {
		deps.Tagger = organizer.NoopTagger{}
	}
	if deps.Prober == nil {
		deps.Prober = probe.NameProber{}
	}
	return &Pipeline{deps: deps, sourceRoot: sourceRoot, workers: workers, log: log}
}

// Run executes one full organizing pass. Individual unit failures never
// abort the run; only an inaccessible source root or a concurrent run do.
func (p *Pipeline) Run(ctx context.Context) error {
	lock := flock.New(filepath.Join(p.sourceRoot, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return ErrRunInProgress
	}
	defer func() { _ = lock.Unlock() }()

	result, err := p.deps.Scanner.Scan()
	if err != nil {
		return err
	}

	p.markNonUnits(result)

	units, skipped, err := p.filterProcessed(result.Units)
	if err != nil {
		return err
	}
	for _, unit := range skipped {
		p.deps.Bus.Publish(events.NewUnitSkipped(unit.ID, unit.Path, media.ReasonAlreadyDone))
	}
	p.log.Info("run starting",
		"units", len(units), "already_processed", len(skipped), "workers", p.workers)

	g, gctx := errgroup.WithContext(ctx)
	moveCh := make(chan *planned)

	g.Go(func() error {
		defer close(moveCh)
		workers, wctx := errgroup.WithContext(gctx)
		workers.SetLimit(p.workers)
		for _, unit := range units {
			workers.Go(func() error {
				pl, err := p.evaluate(wctx, unit)
				if err != nil {
					return err
				}
				select {
				case moveCh <- pl:
					return nil
				case <-wctx.Done():
					return wctx.Err()
				}
			})
		}
		return workers.Wait()
	})

	// Single mover stage: every filesystem mutation is serialized here.
	// Once a unit starts moving it finishes; cancellation takes effect
	// between units, so the ledger never records a half-done unit.
	g.Go(func() error {
		for pl := range moveCh {
			if gctx.Err() != nil {
				continue
			}
			p.execute(pl)
		}
		return nil
	})

	return g.Wait()
}

// markNonUnits records media-free directories and unrecognized files as
// processed so later runs skip them. They never get a decision.
func (p *Pipeline) markNonUnits(result *scanner.Result) {
	if p.deps.Executor.DryRun() {
		return
	}
	for _, path := range append(append([]string(nil), result.EmptyDirs...), result.Unrecognized...) {
		has, err := p.deps.Ledger.Has(path)
		if err != nil {
			p.log.Warn("ledger check failed", "path", path, "error", err)
			continue
		}
		if has {
			continue
		}
		if err := p.deps.Ledger.Record(path, media.OutcomeSkipped, ""); err != nil {
			p.log.Warn("ledger write failed", "path", path, "error", err)
		}
	}
}

// filterProcessed splits units into pending and already-ledgered. The
// ledger is authoritative; no in-memory tracking substitutes for it.
func (p *Pipeline) filterProcessed(units []*media.Unit) (pending, skipped []*media.Unit, err error) {
	for _, unit := range units {
		has, err := p.deps.Ledger.Has(unit.Path)
		if err != nil {
			return nil, nil, err
		}
		if has {
			skipped = append(skipped, unit)
			continue
		}
		pending = append(pending, unit)
	}
	return pending, skipped, nil
}
