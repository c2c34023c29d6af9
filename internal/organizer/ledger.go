package organizer

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vmunix/sortarr/internal/media"
)

// ProcessedRecord is one durable ledger entry. Its presence makes a
// source path terminal: reruns skip it without re-querying metadata.
type ProcessedRecord struct {
	SourcePath string
	Outcome    media.Outcome
	DestPath   string
	CreatedAt  time.Time
}

// LedgerFilter specifies criteria for listing ledger entries.
type LedgerFilter struct {
	Outcome *media.Outcome
	Limit   int
}

// Ledger persists processed records. It is the authority on whether a
// source path has already been handled; in-memory tracking is never a
// substitute.
type Ledger struct {
	db *sql.DB
}

// NewLedger creates a ledger backed by the given database.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Has reports whether a source path already has a record.
func (l *Ledger) Has(sourcePath string) (bool, error) {
	var one int
	err := l.db.QueryRow(`SELECT 1 FROM processed WHERE source_path = ?`, sourcePath).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query processed: %w", err)
	}
	return true, nil
}

// Get returns the record for a source path, or nil if none exists.
func (l *Ledger) Get(sourcePath string) (*ProcessedRecord, error) {
	r := &ProcessedRecord{}
	err := l.db.QueryRow(`
		SELECT source_path, outcome, dest_path, created_at
		FROM processed WHERE source_path = ?`, sourcePath,
	).Scan(&r.SourcePath, &r.Outcome, &r.DestPath, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get processed: %w", err)
	}
	return r, nil
}

// Record inserts a ledger entry. An existing entry for the same source
// path is replaced; the most recent run's outcome wins.
func (l *Ledger) Record(sourcePath string, outcome media.Outcome, destPath string) error {
	_, err := l.db.Exec(`
		INSERT INTO processed (source_path, outcome, dest_path, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			outcome = excluded.outcome,
			dest_path = excluded.dest_path,
			created_at = excluded.created_at`,
		sourcePath, string(outcome), destPath, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert processed: %w", err)
	}
	return nil
}

// List returns ledger entries matching the filter, most recent first.
func (l *Ledger) List(f LedgerFilter) ([]*ProcessedRecord, error) {
	var conditions []string
	var args []any

	if f.Outcome != nil {
		conditions = append(conditions, "outcome = ?")
		args = append(args, string(*f.Outcome))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT source_path, outcome, dest_path, created_at
		FROM processed ` + whereClause + ` ORDER BY created_at DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list processed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*ProcessedRecord
	for rows.Next() {
		r := &ProcessedRecord{}
		if err := rows.Scan(&r.SourcePath, &r.Outcome, &r.DestPath, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan processed: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processed: %w", err)
	}

	return results, nil
}

// Forget removes the record for a source path so the next run
// re-evaluates it. This is the explicit invalidation for directories
// whose contents changed after classification.
func (l *Ledger) Forget(sourcePath string) (bool, error) {
	res, err := l.db.Exec(`DELETE FROM processed WHERE source_path = ?`, sourcePath)
	if err != nil {
		return false, fmt.Errorf("delete processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
