package events

import "github.com/vmunix/sortarr/internal/media"

// Event type names.
const (
	TypeDecisionMade  = "decision.made"
	TypeUnitMoved     = "unit.moved"
	TypeSidecarMoved  = "sidecar.moved"
	TypeSidecarFailed = "sidecar.failed"
	TypeUnitSkipped   = "unit.skipped"
)

// DecisionMade is emitted once per unit after scoring and routing.
type DecisionMade struct {
	BaseEvent
	MediaUnit *media.Unit    `json:"media_unit"`
	Decision  media.Decision `json:"decision"`
}

// NewDecisionMade creates a DecisionMade event.
func NewDecisionMade(unit *media.Unit, d media.Decision) DecisionMade {
	return DecisionMade{BaseEvent: NewBaseEvent(TypeDecisionMade, unit.ID), MediaUnit: unit, Decision: d}
}

// UnitMoved is emitted after a primary file relocation completes (or, in
// dry-run mode, after the intended move is recorded).
type UnitMoved struct {
	BaseEvent
	SourcePath string `json:"source_path"`
	DestPath   string `json:"dest_path"`
	DryRun     bool   `json:"dry_run"`
}

// NewUnitMoved creates a UnitMoved event.
func NewUnitMoved(unitID, source, dest string, dryRun bool) UnitMoved {
	return UnitMoved{BaseEvent: NewBaseEvent(TypeUnitMoved, unitID), SourcePath: source, DestPath: dest, DryRun: dryRun}
}

// SidecarMoved is emitted per successfully relocated sidecar file.
type SidecarMoved struct {
	BaseEvent
	SourcePath string `json:"source_path"`
	DestPath   string `json:"dest_path"`
}

// NewSidecarMoved creates a SidecarMoved event.
func NewSidecarMoved(unitID, source, dest string) SidecarMoved {
	return SidecarMoved{BaseEvent: NewBaseEvent(TypeSidecarMoved, unitID), SourcePath: source, DestPath: dest}
}

// SidecarFailed is emitted when a sidecar move fails after its primary
// succeeded. The primary move stands; the failure is partial.
type SidecarFailed struct {
	BaseEvent
	SourcePath string `json:"source_path"`
	Error      string `json:"error"`
}

// NewSidecarFailed creates a SidecarFailed event.
func NewSidecarFailed(unitID, source string, err error) SidecarFailed {
	return SidecarFailed{BaseEvent: NewBaseEvent(TypeSidecarFailed, unitID), SourcePath: source, Error: err.Error()}
}

// UnitSkipped is emitted when the ledger already holds a terminal record
// for a unit's source path.
type UnitSkipped struct {
	BaseEvent
	SourcePath string `json:"source_path"`
	Reason     string `json:"reason"`
}

// NewUnitSkipped creates a UnitSkipped event.
func NewUnitSkipped(unitID, source, reason string) UnitSkipped {
	return UnitSkipped{BaseEvent: NewBaseEvent(TypeUnitSkipped, unitID), SourcePath: source, Reason: reason}
}
