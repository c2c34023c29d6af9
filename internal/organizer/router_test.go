package organizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/sortarr/internal/media"
)

func testRouter() *Router {
	roots := Roots{
		Movies: "/library/movies",
		TV:     "/library/tv",
		Music:  "/library/music",
		Review: "/library/review",
	}
	templates := Templates{
		Movie:        "{title} ({year})/{title} ({year}).{ext}",
		Episode:      "{title}/Season {season:02}/{title} - S{season:02}E{episode:02}.{ext}",
		SeasonFolder: "{title}/Season {season:02}",
	}
	return NewRouter(roots, templates, "/incoming")
}

func TestRouter_Movie(t *testing.T) {
	r := testRouter()

	dest, err := r.Route(media.Identity{Kind: media.KindMovie, Title: "The Matrix", Year: 1999}, "mkv")
	require.NoError(t, err)
	assert.Equal(t, "/library/movies/The Matrix (1999)/The Matrix (1999).mkv", dest)
}

func TestRouter_MovieWithoutYear(t *testing.T) {
	r := testRouter()

	dest, err := r.Route(media.Identity{Kind: media.KindMovie, Title: "Primer"}, "mkv")
	require.NoError(t, err)
	assert.Equal(t, "/library/movies/Primer/Primer.mkv", dest)
}

func TestRouter_MovieTitleSanitized(t *testing.T) {
	r := testRouter()

	dest, err := r.Route(media.Identity{Kind: media.KindMovie, Title: "Face/Off", Year: 1997}, "mkv")
	require.NoError(t, err)
	assert.Equal(t, "/library/movies/Face Off (1997)/Face Off (1997).mkv", dest)
}

func TestRouter_Episode(t *testing.T) {
	r := testRouter()

	dest, err := r.Route(media.Identity{
		Kind: media.KindEpisode, Title: "Breaking Bad", Season: 2, Episode: 5,
	}, "mkv")
	require.NoError(t, err)
	assert.Equal(t, "/library/tv/Breaking Bad/Season 02/Breaking Bad - S02E05.mkv", dest)
}

func TestRouter_SeasonFolder(t *testing.T) {
	r := testRouter()

	assert.Equal(t, "/library/tv/The Wire/Season 03", r.SeasonFolder("The Wire", 3))
}

func TestRouter_UnroutableKind(t *testing.T) {
	r := testRouter()

	_, err := r.Route(media.Identity{Kind: media.KindUnknown, Title: "mystery"}, "mkv")
	assert.Error(t, err)
}

func TestRouter_ReviewPathMirrorsSourceLayout(t *testing.T) {
	r := testRouter()

	dest := r.ReviewPath("/incoming/stuff/odd.file.mkv", media.ReasonLowConfidence)
	assert.Equal(t, "/library/review/low_confidence/stuff/odd.file.mkv", dest)
}

func TestRouter_ReviewPathOutsideSourceRoot(t *testing.T) {
	r := testRouter()

	dest := r.ReviewPath("/elsewhere/odd.mkv", media.ReasonParseFailure)
	assert.Equal(t, "/library/review/parse_failure/odd.mkv", dest)
}

func TestRouter_MusicPath(t *testing.T) {
	r := testRouter()

	dest, err := r.MusicPath("Miles Davis/Kind of Blue/01 So What.flac")
	require.NoError(t, err)
	assert.Equal(t, "/library/music/Miles Davis/Kind of Blue/01 So What.flac", dest)

	_, err = r.MusicPath("../escape.flac")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestSidecarDest(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		dest    string
		sidecar string
		want    string
	}{
		{
			"plain subtitle",
			"/in/show.name.s02e05.mkv",
			"/library/tv/Show Name/Season 02/Show Name - S02E05.mkv",
			"/in/show.name.s02e05.srt",
			"/library/tv/Show Name/Season 02/Show Name - S02E05.srt",
		},
		{
			"language tagged subtitle",
			"/in/movie.2020.mkv",
			"/library/movies/Movie (2020)/Movie (2020).mkv",
			"/in/movie.2020.en.srt",
			"/library/movies/Movie (2020)/Movie (2020).en.srt",
		},
		{
			"unrelated base kept as-is",
			"/in/movie.mkv",
			"/library/movies/Movie (2020)/Movie (2020).mkv",
			"/in/poster.jpg",
			"/library/movies/Movie (2020)/poster.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SidecarDest(tt.primary, tt.dest, tt.sidecar))
		})
	}
}
