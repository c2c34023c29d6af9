package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/sortarr/internal/events"
	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/internal/metadata/mocks"
	"github.com/vmunix/sortarr/internal/organizer"
	"github.com/vmunix/sortarr/internal/report"
	"github.com/vmunix/sortarr/internal/scanner"
	"github.com/vmunix/sortarr/internal/scoring"
	"github.com/vmunix/sortarr/internal/store"
)

type fixture struct {
	src      string
	dst      string
	pipe     *Pipeline
	bus      *events.Bus
	coll     *report.Collector
	ledger   *organizer.Ledger
	provider *mocks.MockProvider
}

func newFixture(t *testing.T, dryRun bool) *fixture {
	t.Helper()

	src := filepath.Join(t.TempDir(), "incoming")
	dst := t.TempDir()
	require.NoError(t, os.MkdirAll(src, 0755))

	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("tmdb").AnyTimes()

	resolver := metadata.NewResolver([]metadata.Provider{provider}, nil, metadata.NewCache(db), slog.Default())

	roots := organizer.Roots{
		Movies: filepath.Join(dst, "movies"),
		TV:     filepath.Join(dst, "tv"),
		Music:  filepath.Join(dst, "music"),
		Review: filepath.Join(dst, "review"),
	}
	templates := organizer.Templates{
		Movie:        "{title} ({year})/{title} ({year}).{ext}",
		Episode:      "{title}/Season {season:02}/{title} - S{season:02}E{episode:02}.{ext}",
		SeasonFolder: "{title}/Season {season:02}",
	}

	bus := events.NewBus(nil)
	coll := report.NewCollector(bus, src, dryRun)
	ledger := organizer.NewLedger(db)

	deps := Deps{
		Scanner:  scanner.New(src, 0.8, slog.Default()),
		Resolver: resolver,
		Scorer:   scoring.New(scoring.DefaultConfig()),
		Router:   organizer.NewRouter(roots, templates, src),
		Executor: organizer.NewExecutor(ledger, bus, nil, dryRun, slog.Default()),
		Ledger:   ledger,
		Bus:      bus,
	}

	return &fixture{
		src:      src,
		dst:      dst,
		pipe:     New(deps, src, 2, slog.Default()),
		bus:      bus,
		coll:     coll,
		ledger:   ledger,
		provider: provider,
	}
}

func (f *fixture) run(t *testing.T) *report.Report {
	t.Helper()
	require.NoError(t, f.pipe.Run(context.Background()))
	f.bus.Close()
	return f.coll.Report()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestPipeline_AcceptedMovieMovesWithSidecar(t *testing.T) {
	f := newFixture(t, false)
	writeFile(t, filepath.Join(f.src, "The.Matrix.1999.1080p.BluRay.x264.mkv"), "video")
	writeFile(t, filepath.Join(f.src, "The.Matrix.1999.1080p.BluRay.x264.srt"), "subs")

	f.provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]media.Candidate{
		{Provider: "tmdb", ExternalID: "603", Title: "The Matrix", Year: 1999, Popularity: 80},
	}, nil)

	rep := f.run(t)

	dest := filepath.Join(f.dst, "movies", "The Matrix (1999)", "The Matrix (1999).mkv")
	assert.FileExists(t, dest)
	assert.FileExists(t, filepath.Join(filepath.Dir(dest), "The Matrix (1999).srt"))

	require.Len(t, rep.Entries, 1)
	e := rep.Entries[0]
	assert.Equal(t, media.OutcomeAccepted, e.Outcome)
	assert.Equal(t, dest, e.DestPath)
	assert.True(t, e.Moved)
	require.Len(t, e.Sidecars, 1)
	assert.Empty(t, e.Sidecars[0].Error)

	require.NotNil(t, e.Tech, "release-name tokens carry probeable metadata")
	assert.Equal(t, "h264", e.Tech.VideoCodec)
	assert.Equal(t, "1080p", e.Tech.Resolution)
	assert.Equal(t, "bluray", e.Tech.Source)

	assert.Equal(t, 1, rep.Summary.Accepted)
	assert.Equal(t, rep.Summary.Total, rep.Summary.Accepted)
}

func TestPipeline_LowConfidenceGoesToReview(t *testing.T) {
	f := newFixture(t, false)
	writeFile(t, filepath.Join(f.src, "Some.Obscure.Film.2011.mkv"), "video")

	f.provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]media.Candidate{
		{Provider: "tmdb", ExternalID: "1", Title: "Entirely Different Movie", Year: 1973},
	}, nil)

	rep := f.run(t)

	require.Len(t, rep.Entries, 1)
	e := rep.Entries[0]
	assert.Equal(t, media.OutcomeReview, e.Outcome)
	assert.Equal(t, media.ReasonLowConfidence, e.Reason)
	assert.NotEmpty(t, e.Candidates, "review entries keep the scored list for audit")

	reviewed := filepath.Join(f.dst, "review", media.ReasonLowConfidence, "Some.Obscure.Film.2011.mkv")
	assert.FileExists(t, reviewed)
}

func TestPipeline_NoCandidatesGoesToReview(t *testing.T) {
	f := newFixture(t, false)
	writeFile(t, filepath.Join(f.src, "Unknown.Thing.2012.mkv"), "video")

	f.provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, nil)

	rep := f.run(t)

	require.Len(t, rep.Entries, 1)
	assert.Equal(t, media.OutcomeReview, rep.Entries[0].Outcome)
	assert.Equal(t, media.ReasonNoCandidates, rep.Entries[0].Reason)
}

func TestPipeline_SecondRunMovesNothing(t *testing.T) {
	f := newFixture(t, false)
	writeFile(t, filepath.Join(f.src, "The.Matrix.1999.mkv"), "video")

	// One provider call total: the second run is served by the ledger.
	f.provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]media.Candidate{
		{Provider: "tmdb", ExternalID: "603", Title: "The Matrix", Year: 1999},
	}, nil).Times(1)

	require.NoError(t, f.pipe.Run(context.Background()))
	require.NoError(t, f.pipe.Run(context.Background()))
	f.bus.Close()
	rep := f.coll.Report()

	// First run: one accepted. Second run: the unit no longer exists at
	// the source, so the tree is simply empty again.
	assert.Equal(t, 1, rep.Summary.Accepted)
}

func TestPipeline_LedgerSkipsProcessedPath(t *testing.T) {
	f := newFixture(t, false)
	src := filepath.Join(f.src, "The.Matrix.1999.mkv")
	writeFile(t, src, "video")

	require.NoError(t, f.ledger.Record(src, media.OutcomeAccepted, "/somewhere"))

	// No provider call expected at all.
	rep := f.run(t)

	assert.FileExists(t, src, "ledgered unit must not be touched")
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, media.OutcomeSkipped, rep.Entries[0].Outcome)
	assert.Equal(t, media.ReasonAlreadyDone, rep.Entries[0].Reason)
}

func TestPipeline_SeasonGroupRoutesPerEpisode(t *testing.T) {
	f := newFixture(t, false)
	dir := filepath.Join(f.src, "Breaking.Bad.S02.1080p")
	writeFile(t, filepath.Join(dir, "breaking.bad.s02e01.mkv"), "ep1")
	writeFile(t, filepath.Join(dir, "breaking.bad.s02e02.mkv"), "ep2")
	writeFile(t, filepath.Join(dir, "breaking.bad.s02e02.srt"), "subs")

	// One lookup for the whole pack.
	f.provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]media.Candidate{
		{Provider: "tmdb", ExternalID: "1396", Title: "Breaking Bad", Popularity: 90},
	}, nil).Times(1)

	rep := f.run(t)

	season := filepath.Join(f.dst, "tv", "Breaking Bad", "Season 02")
	assert.FileExists(t, filepath.Join(season, "Breaking Bad - S02E01.mkv"))
	assert.FileExists(t, filepath.Join(season, "Breaking Bad - S02E02.mkv"))
	assert.FileExists(t, filepath.Join(season, "Breaking Bad - S02E02.srt"))

	require.Len(t, rep.Entries, 1)
	assert.Equal(t, media.OutcomeAccepted, rep.Entries[0].Outcome)

	// The group directory itself is ledgered for rerun skips.
	has, err := f.ledger.Has(dir)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestPipeline_MusicGoesToReviewWithoutTagger(t *testing.T) {
	f := newFixture(t, false)
	writeFile(t, filepath.Join(f.src, "track01.mp3"), "audio")

	rep := f.run(t)

	require.Len(t, rep.Entries, 1)
	assert.Equal(t, media.OutcomeReview, rep.Entries[0].Outcome)
	assert.Equal(t, media.ReasonMusicUntagged, rep.Entries[0].Reason)
	assert.FileExists(t, filepath.Join(f.dst, "review", media.ReasonMusicUntagged, "track01.mp3"))
}

func TestPipeline_CollisionMarksFailedAndLeavesSource(t *testing.T) {
	f := newFixture(t, false)
	src := filepath.Join(f.src, "The.Matrix.1999.mkv")
	writeFile(t, src, "the real movie")
	writeFile(t, filepath.Join(f.dst, "movies", "The Matrix (1999)", "The Matrix (1999).mkv"), "squatter file, different size")

	f.provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]media.Candidate{
		{Provider: "tmdb", ExternalID: "603", Title: "The Matrix", Year: 1999},
	}, nil)

	rep := f.run(t)

	assert.FileExists(t, src)
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, media.OutcomeFailed, rep.Entries[0].Outcome)
	assert.Equal(t, media.ReasonCollision, rep.Entries[0].Reason)

	has, err := f.ledger.Has(src)
	require.NoError(t, err)
	assert.False(t, has, "collision must not advance the ledger")
}

func TestPipeline_DryRunTouchesNothing(t *testing.T) {
	f := newFixture(t, true)
	src := filepath.Join(f.src, "The.Matrix.1999.mkv")
	writeFile(t, src, "video")

	f.provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]media.Candidate{
		{Provider: "tmdb", ExternalID: "603", Title: "The Matrix", Year: 1999},
	}, nil)

	rep := f.run(t)

	assert.FileExists(t, src)
	assert.NoDirExists(t, filepath.Join(f.dst, "movies", "The Matrix (1999)"))

	require.Len(t, rep.Entries, 1)
	assert.Equal(t, media.OutcomeAccepted, rep.Entries[0].Outcome)
	assert.True(t, rep.Entries[0].DryRun)
	assert.False(t, rep.Entries[0].Moved)

	has, err := f.ledger.Has(src)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestPipeline_UnparsableGoesToReview(t *testing.T) {
	f := newFixture(t, false)
	writeFile(t, filepath.Join(f.src, "1080p.x264.mkv"), "video")

	rep := f.run(t)

	require.Len(t, rep.Entries, 1)
	assert.Equal(t, media.OutcomeReview, rep.Entries[0].Outcome)
	assert.Equal(t, media.ReasonParseFailure, rep.Entries[0].Reason)
}

func TestPipeline_MissingSourceRootIsFatal(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, os.RemoveAll(f.src))

	err := f.pipe.Run(context.Background())
	assert.Error(t, err)
}
