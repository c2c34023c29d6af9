package organizer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vmunix/sortarr/internal/events"
	"github.com/vmunix/sortarr/internal/media"
)

// SidecarMove is one planned sidecar relocation.
type SidecarMove struct {
	Source string
	Dest   string
}

// SidecarResult records the outcome of one sidecar move.
type SidecarResult struct {
	Source string
	Dest   string
	Err    error
}

// MovePlan describes one primary file relocation plus its sidecars.
type MovePlan struct {
	UnitID     string
	SourcePath string
	DestPath   string
	Sidecars   []SidecarMove

	// Outcome is written to the ledger once the primary move is durable.
	Outcome media.Outcome
}

// MoveResult reports what Execute actually did.
type MoveResult struct {
	Moved          bool
	AlreadyInPlace bool
	Declined       bool
	DryRun         bool
	Sidecars       []SidecarResult
}

// Executor performs file relocations. The ledger is written only after
// the primary file is durably in place; a crash mid-run therefore
// re-processes the unit rather than skipping a half-finished move.
// Callers must serialize Execute calls (single mover stage).
type Executor struct {
	ledger  *Ledger
	bus     *events.Bus
	confirm Confirmer
	dryRun  bool
	log     *slog.Logger
}

// NewExecutor creates an executor.
func NewExecutor(ledger *Ledger, bus *events.Bus, confirm Confirmer, dryRun bool, log *slog.Logger) *Executor {
	if confirm == nil {
		confirm = AutoConfirmer{}
	}
	return &Executor{ledger: ledger, bus: bus, confirm: confirm, dryRun: dryRun, log: log}
}

// DryRun reports whether the executor records intent without moving files.
func (e *Executor) DryRun() bool { return e.dryRun }

// Execute performs the planned move. A destination occupied by a file of
// a different size is a collision: the source is left untouched, no
// ledger record is written, and ErrCollision is returned. A destination
// holding a byte-identical file means the unit is already in place; the
// ledger advances and no file is touched. Sidecar moves run after the
// primary succeeds and each failure is recorded without rolling back.
func (e *Executor) Execute(plan MovePlan) (*MoveResult, error) {
	srcInfo, err := os.Stat(plan.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat source: %v", ErrMoveFailed, err)
	}

	if dstInfo, err := os.Stat(plan.DestPath); err == nil {
		if dstInfo.Size() == srcInfo.Size() {
			e.log.Info("destination already holds this file",
				"source", plan.SourcePath, "dest", plan.DestPath)
			if err := e.ledger.Record(plan.SourcePath, plan.Outcome, plan.DestPath); err != nil {
				return nil, err
			}
			e.bus.Publish(events.NewUnitSkipped(plan.UnitID, plan.SourcePath, media.ReasonAlreadyDone))
			return &MoveResult{AlreadyInPlace: true}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrCollision, plan.DestPath)
	}

	if e.dryRun {
		e.log.Info("dry run, would move",
			"source", plan.SourcePath, "dest", plan.DestPath, "sidecars", len(plan.Sidecars))
		e.bus.Publish(events.NewUnitMoved(plan.UnitID, plan.SourcePath, plan.DestPath, true))
		return &MoveResult{DryRun: true}, nil
	}

	ok, err := e.confirm.Confirm(plan.SourcePath, plan.DestPath)
	if err != nil {
		return nil, fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		e.log.Info("move declined", "source", plan.SourcePath)
		return &MoveResult{Declined: true}, nil
	}

	if err := moveFile(plan.SourcePath, plan.DestPath); err != nil {
		return nil, err
	}
	if err := e.ledger.Record(plan.SourcePath, plan.Outcome, plan.DestPath); err != nil {
		return nil, err
	}
	e.bus.Publish(events.NewUnitMoved(plan.UnitID, plan.SourcePath, plan.DestPath, false))

	result := &MoveResult{Moved: true}
	for _, sc := range plan.Sidecars {
		res := SidecarResult{Source: sc.Source, Dest: sc.Dest}
		if err := moveFile(sc.Source, sc.Dest); err != nil {
			res.Err = err
			e.log.Warn("sidecar move failed", "source", sc.Source, "error", err)
			e.bus.Publish(events.NewSidecarFailed(plan.UnitID, sc.Source, err))
		} else {
			if err := e.ledger.Record(sc.Source, plan.Outcome, sc.Dest); err != nil {
				res.Err = err
			} else {
				e.bus.Publish(events.NewSidecarMoved(plan.UnitID, sc.Source, sc.Dest))
			}
		}
		result.Sidecars = append(result.Sidecars, res)
	}

	return result, nil
}

// moveFile relocates src to dst, creating destination directories.
// Rename is tried first; cross-device moves fall back to copy-and-remove
// with an fsync before the source is deleted.
func moveFile(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrCollision, dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrMoveFailed, err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("%w: remove source after copy: %v", ErrMoveFailed, err)
	}
	return nil
}

// copyFile copies src to dst and syncs it to disk.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open source: %v", ErrMoveFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: create destination: %v", ErrMoveFailed, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: copy content: %v", ErrMoveFailed, err)
	}

	if err := dstFile.Sync(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: sync: %v", ErrMoveFailed, err)
	}

	return nil
}
