package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/sortarr/internal/media"
)

func TestNameProber(t *testing.T) {
	tests := []struct {
		name string
		path string
		want media.TechInfo
	}{
		{
			"scene release",
			"/in/The.Matrix.1999.1080p.BluRay.x264.mkv",
			media.TechInfo{VideoCodec: "h264", Resolution: "1080p", Source: "bluray"},
		},
		{
			"modern web release",
			"/in/Show.S01E01.2160p.WEB-DL.HEVC.mkv",
			media.TechInfo{VideoCodec: "h265", Resolution: "2160p", Source: "web"},
		},
		{
			"old xvid rip with language",
			"/in/Old.Movie.2004.DVDRip.XviD.Spanish.avi",
			media.TechInfo{VideoCodec: "xvid", Resolution: "", Source: "dvd", Languages: []string{"spa"}},
		},
		{
			"duplicate language collapses",
			"/in/Film.1080p.English.ENG.mkv",
			media.TechInfo{Resolution: "1080p", Languages: []string{"eng"}},
		},
		{
			"nothing recognized",
			"/in/Some Movie.mkv",
			media.TechInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NameProber{}.Probe(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameProber_EmptyMeansNothingProbed(t *testing.T) {
	got, err := NameProber{}.Probe("/in/plain.mkv")
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
