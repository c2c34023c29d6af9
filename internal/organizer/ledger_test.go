package organizer

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/internal/store"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLedger_RecordAndHas(t *testing.T) {
	l := NewLedger(setupTestDB(t))

	has, err := l.Has("/in/a.mkv")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, l.Record("/in/a.mkv", media.OutcomeAccepted, "/out/a.mkv"))

	has, err = l.Has("/in/a.mkv")
	require.NoError(t, err)
	assert.True(t, has)

	rec, err := l.Get("/in/a.mkv")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, media.OutcomeAccepted, rec.Outcome)
	assert.Equal(t, "/out/a.mkv", rec.DestPath)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestLedger_GetMissing(t *testing.T) {
	l := NewLedger(setupTestDB(t))

	rec, err := l.Get("/in/missing.mkv")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLedger_RecordReplacesExisting(t *testing.T) {
	l := NewLedger(setupTestDB(t))

	require.NoError(t, l.Record("/in/a.mkv", media.OutcomeReview, "/review/a.mkv"))
	require.NoError(t, l.Record("/in/a.mkv", media.OutcomeAccepted, "/out/a.mkv"))

	rec, err := l.Get("/in/a.mkv")
	require.NoError(t, err)
	assert.Equal(t, media.OutcomeAccepted, rec.Outcome)
	assert.Equal(t, "/out/a.mkv", rec.DestPath)
}

func TestLedger_ListFiltersByOutcome(t *testing.T) {
	l := NewLedger(setupTestDB(t))

	require.NoError(t, l.Record("/in/a.mkv", media.OutcomeAccepted, "/out/a.mkv"))
	require.NoError(t, l.Record("/in/b.mkv", media.OutcomeReview, "/review/b.mkv"))
	require.NoError(t, l.Record("/in/c.mkv", media.OutcomeAccepted, "/out/c.mkv"))

	all, err := l.List(LedgerFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	accepted := media.OutcomeAccepted
	recs, err := l.List(LedgerFilter{Outcome: &accepted})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, media.OutcomeAccepted, r.Outcome)
	}

	recs, err = l.List(LedgerFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestLedger_Forget(t *testing.T) {
	l := NewLedger(setupTestDB(t))

	require.NoError(t, l.Record("/in/a.mkv", media.OutcomeAccepted, "/out/a.mkv"))

	removed, err := l.Forget("/in/a.mkv")
	require.NoError(t, err)
	assert.True(t, removed)

	has, err := l.Has("/in/a.mkv")
	require.NoError(t, err)
	assert.False(t, has)

	removed, err = l.Forget("/in/a.mkv")
	require.NoError(t, err)
	assert.False(t, removed)
}
