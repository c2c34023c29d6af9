package report

import (
	"github.com/vmunix/sortarr/internal/events"
	"github.com/vmunix/sortarr/internal/media"
)

// Collector subscribes to the event bus and accumulates a run report.
// It only observes; nothing reads it back into the pipeline.
type Collector struct {
	report *Report
	ch     <-chan events.Event
	done   chan struct{}
	index  map[string]int // unit ID -> entry index
}

// NewCollector starts collecting from the bus. The subscription is
// lossless so report counts match the units discovered. Call Report
// after the bus is closed to obtain the finalized report.
func NewCollector(bus *events.Bus, sourceRoot string, dryRun bool) *Collector {
	c := &Collector{
		report: NewReport(sourceRoot, dryRun),
		ch:     bus.SubscribeAllReliable(256),
		done:   make(chan struct{}),
		index:  make(map[string]int),
	}
	go c.run()
	return c
}

// Report blocks until the event stream ends, then finalizes and returns
// the report.
func (c *Collector) Report() *Report {
	<-c.done
	c.report.Finalize()
	return c.report
}

func (c *Collector) run() {
	defer close(c.done)
	for e := range c.ch {
		c.handle(e)
	}
}

func (c *Collector) handle(e events.Event) {
	switch ev := e.(type) {
	case events.DecisionMade:
		entry := c.entry(ev.UnitID())
		entry.SourcePath = ev.MediaUnit.Path
		entry.Kind = ev.MediaUnit.Kind
		entry.Tech = ev.MediaUnit.Tech
		entry.Outcome = ev.Decision.Outcome
		entry.Reason = ev.Decision.Reason
		entry.Confidence = ev.Decision.Confidence
		entry.Chosen = ev.Decision.Chosen
		entry.Candidates = ev.Decision.Candidates
		if ev.Decision.DestPath != "" {
			entry.DestPath = ev.Decision.DestPath
		}
	case events.UnitMoved:
		entry := c.entry(ev.UnitID())
		entry.DestPath = ev.DestPath
		entry.DryRun = ev.DryRun
		entry.Moved = !ev.DryRun
		if entry.SourcePath == "" {
			entry.SourcePath = ev.SourcePath
		}
	case events.SidecarMoved:
		entry := c.entry(ev.UnitID())
		entry.Sidecars = append(entry.Sidecars, SidecarOp{
			SourcePath: ev.SourcePath,
			DestPath:   ev.DestPath,
		})
	case events.SidecarFailed:
		entry := c.entry(ev.UnitID())
		entry.Sidecars = append(entry.Sidecars, SidecarOp{
			SourcePath: ev.SourcePath,
			Error:      ev.Error,
		})
	case events.UnitSkipped:
		entry := c.entry(ev.UnitID())
		if entry.SourcePath == "" {
			entry.SourcePath = ev.SourcePath
		}
		if entry.Outcome == "" {
			entry.Outcome = media.OutcomeSkipped
			entry.Reason = ev.Reason
		}
	}
}

// entry returns the report entry for a unit, creating it on first sight.
func (c *Collector) entry(unitID string) *Entry {
	if i, ok := c.index[unitID]; ok {
		return &c.report.Entries[i]
	}
	c.report.Entries = append(c.report.Entries, Entry{UnitID: unitID})
	c.index[unitID] = len(c.report.Entries) - 1
	return &c.report.Entries[len(c.report.Entries)-1]
}
