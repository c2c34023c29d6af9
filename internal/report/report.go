// Package report aggregates every decision and file operation of one run
// into a single machine-readable artifact.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/sortarr/internal/media"
)

// SidecarOp records one sidecar relocation attempt.
type SidecarOp struct {
	SourcePath string `json:"source_path"`
	DestPath   string `json:"dest_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

/// Entry is one unit's full audit trail: the decision, the scored
// candidate list, and every file operation performed for it.
type Entry struct {
	UnitID     string                  `json:"unit_id"`
	SourcePath string                  `json:"source_path"`
	Kind       media.Kind              `json:"kind"`
	Tech       *media.TechInfo         `json:"tech,omitempty"`
	Outcome    media.Outcome           `json:"outcome"`
	Reason     string                  `json:"reason,omitempty"`
	Confidence float64                 `json:"confidence"`
	Chosen     *media.Candidate        `json:"chosen,omitempty"`
	Candidates []media.ScoredCandidate `json:"candidates,omitempty"`
	DestPath   string                  `json:"dest_path,omitempty"`
	Moved      bool                    `json:"moved"`
	DryRun     bool                    `json:"dry_run,omitempty"`
	Sidecars   []SidecarOp             `json:"sidecars,omitempty"`
}

// Summary holds the aggregate outcome counts. Total always equals the
// number of entries.
type Summary struct {
	Accepted int `json:"accepted"`
	Review   int `json:"review"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// Report is the write-once artifact for one run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	SourceRoot string    `json:"source_root"`
	DryRun     bool      `json:"dry_run"`
	Entries    []Entry   `json:"entries"`
	Summary    Summary   `json:"summary"`
}

// NewReport creates an empty report for a run starting now.
func NewReport(sourceRoot string, dryRun bool) *Report {
	return &Report{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		SourceRoot: sourceRoot,
		DryRun:     dryRun,
	}
}

// Finalize stamps the finish time and recomputes the summary counts.
func (r *Report) Finalize() {
	r.FinishedAt = time.Now()
	s := Summary{Total: len(r.Entries)}
	for _, e := range r.Entries {
		switch e.Outcome {
		case media.OutcomeAccepted:
			s.Accepted++
		case media.OutcomeReview:
			s.Review++
		case media.OutcomeSkipped:
			s.Skipped++
		case media.OutcomeFailed:
			s.Failed++
		}
	}
	r.Summary = s
}

// Write saves the report as one JSON document under dir and returns the
// file path. An existing file for the same run is never overwritten.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", r.RunID))
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync report: %w", err)
	}

	return path, nil
}
