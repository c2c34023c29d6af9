package medianame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/sortarr/internal/media"
)

func TestParse_EpisodeSeparatorStyles(t *testing.T) {
	// Every separator style must yield the same identity.
	inputs := []string{
		"Breaking.Bad.S02E05.720p.HDTV.x264.mkv",
		"Breaking Bad S02E05 720p HDTV x264.mkv",
		"breaking_bad_s02e05.mkv",
		"Breaking.Bad.s2e5.mkv",
		"Breaking.Bad.2x05.mkv",
	}

	for _, in := range inputs {
		id, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, media.KindEpisode, id.Kind, in)
		assert.Equal(t, "Breaking Bad", id.Title, in)
		assert.Equal(t, 2, id.Season, in)
		assert.Equal(t, 5, id.Episode, in)
	}
}

func TestParse_Movies(t *testing.T) {
	tests := []struct {
		name  string
		input string
		title string
		year  int
	}{
		{"scene release", "The.Matrix.1999.1080p.BluRay.x264.mkv", "The Matrix", 1999},
		{"paren year", "The Matrix (1999).mkv", "The Matrix", 1999},
		{"year in title picks last", "2001.A.Space.Odyssey.1968.mkv", "2001 a Space Odyssey", 1968},
		{"no year with noise tail", "Inception.1080p.WEBRip.x265-RARBG.mp4", "Inception", 0},
		{"no year no noise", "Inception.mkv", "Inception", 0},
		{"underscores", "blade_runner_1982_directors_cut.mkv", "Blade Runner", 1982},
		{"bracketed group", "[YTS] Arrival 2016 720p.mkv", "Arrival", 2016},
		{"hyphenated title", "Spider-Man.2002.mkv", "Spider-Man", 2002},
		{"hyphenated title with noise", "Ant-Man.2015.1080p.BluRay.mkv", "Ant-Man", 2015},
		{"hyphenated title no year", "Ant-Man.mkv", "Ant-Man", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, media.KindMovie, id.Kind)
			assert.Equal(t, tt.title, id.Title)
			assert.Equal(t, tt.year, id.Year)
		})
	}
}

func TestParse_BareYearIsTitle(t *testing.T) {
	// A name that is nothing but a year is a title ("2012", "1917"),
	// not a year tag.
	id, err := Parse("1917.mkv")
	require.NoError(t, err)
	assert.Equal(t, "1917", id.Title)
	assert.Zero(t, id.Year)
}

func TestParse_Unparsable(t *testing.T) {
	for _, in := range []string{"", "1080p.x264.mkv", "...", "-"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrUnparsable, "input %q", in)
	}
}

func TestParse_SeasonEpisodeLongForm(t *testing.T) {
	id, err := Parse("Lost Season 4 Episode 11.avi")
	require.NoError(t, err)
	assert.Equal(t, media.KindEpisode, id.Kind)
	assert.Equal(t, "Lost", id.Title)
	assert.Equal(t, 4, id.Season)
	assert.Equal(t, 11, id.Episode)
}

func TestSmartTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"the lord of the rings", "The Lord of the Rings"},
		{"a beautiful mind", "A Beautiful Mind"},
		{"once upon a time in the west", "Once Upon a Time in the West"},
		{"spider-man", "Spider-Man"},
	}
	for _, tt := range tests {
		if got := SmartTitle(tt.in); got != tt.want {
			t.Errorf("SmartTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
