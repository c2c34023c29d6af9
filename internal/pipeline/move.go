package pipeline

import (
	"errors"

	"github.com/vmunix/sortarr/internal/events"
	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/internal/organizer"
)

// execute runs a unit's move plans and publishes its final decision.
// Collisions and move errors downgrade the decision; they never abort
// the run.
func (p *Pipeline) execute(pl *planned) {
	var (
		anyFailed   bool
		anyDeclined bool
	)

	for _, plan := range pl.plans {
		result, err := p.deps.Executor.Execute(plan)
		switch {
		case errors.Is(err, organizer.ErrCollision):
			anyFailed = true
			pl.decision.Outcome = media.OutcomeFailed
			pl.decision.Reason = media.ReasonCollision
			p.log.Warn("destination collision", "source", plan.SourcePath, "dest", plan.DestPath)
		case err != nil:
			anyFailed = true
			pl.decision.Outcome = media.OutcomeFailed
			pl.decision.Reason = media.ReasonMoveError
			p.log.Warn("move failed", "source", plan.SourcePath, "error", err)
		case result.Declined:
			anyDeclined = true
			pl.decision.Outcome = media.OutcomeSkipped
			pl.decision.Reason = media.ReasonDeclined
		}
	}

	// The group directory is ledgered only after every member landed, so
	// a partially moved pack is re-evaluated on the next run.
	if pl.groupPath != "" && !anyFailed && !anyDeclined && !p.deps.Executor.DryRun() {
		if err := p.deps.Ledger.Record(pl.groupPath, pl.decision.Outcome, ""); err != nil {
			p.log.Warn("ledger write failed", "path", pl.groupPath, "error", err)
		}
	}

	p.deps.Bus.Publish(events.NewDecisionMade(pl.unit, pl.decision))
}
