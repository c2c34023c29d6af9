// Package probe extracts technical metadata from media files: video
// codec, resolution, source, and audio languages. The default prober
// reads release-name tokens only; implementations that open the
// container can be plugged in through the Prober interface.
package probe

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vmunix/sortarr/internal/media"
)

// Prober extracts technical metadata for a media file path.
type Prober interface {
	Probe(path string) (media.TechInfo, error)
}

// NoopProber reports nothing probed.
type NoopProber struct{}

func (NoopProber) Probe(string) (media.TechInfo, error) { return media.TechInfo{}, nil }

// Codec and resolution vocabularies normalize to one canonical tag per
// family so downstream consumers never branch on spelling variants.
var (
	videoCodecMap = map[string]string{
		"x264": "h264", "h264": "h264", "avc": "h264",
		"x265": "h265", "h265": "h265", "hevc": "h265",
		"xvid": "xvid", "divx": "divx",
		"av1": "av1", "vp9": "vp9",
	}
	resolutionMap = map[string]string{
		"2160p": "2160p", "4k": "2160p", "uhd": "2160p",
		"1080p": "1080p", "1080i": "1080p", "fullhd": "1080p",
		"720p": "720p", "720i": "720p",
		"576p": "576p",
		"480p": "480p", "sd": "480p",
	}
	sourceMap = map[string]string{
		"bluray": "bluray", "bdrip": "bluray", "brrip": "bluray", "remux": "bluray",
		"webdl": "web", "webrip": "web", "web": "web",
		"hdtv": "hdtv", "tvrip": "hdtv",
		"dvdrip": "dvd", "dvdscr": "dvd",
		"hdcam": "cam", "cam": "cam", "telesync": "cam", "telecine": "cam",
	}
	languageMap = map[string]string{
		"english": "eng", "eng": "eng",
		"spanish": "spa", "castellano": "spa", "esp": "spa",
		"latino": "lat",
		"french": "fra", "fra": "fra",
		"german": "deu", "ger": "deu",
		"italian": "ita", "ita": "ita",
		"japanese": "jpn", "jap": "jpn",
		"korean": "kor", "kor": "kor",
	}
)

var tokenSplitRe = regexp.MustCompile(`[^a-z0-9]+`)

// NameProber derives technical metadata from release-name tokens. It
// never opens the file, so it works on paths that no longer exist and
// cannot fail.
type NameProber struct{}

func (NameProber) Probe(path string) (media.TechInfo, error) {
	name := strings.ToLower(filepath.Base(path))
	tokens := tokenSplitRe.Split(name, -1)

	var info media.TechInfo
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if info.VideoCodec == "" {
			if c, ok := videoCodecMap[tok]; ok {
				info.VideoCodec = c
				continue
			}
		}
		if info.Resolution == "" {
			if r, ok := resolutionMap[tok]; ok {
				info.Resolution = r
				continue
			}
		}
		if info.Source == "" {
			if s, ok := sourceMap[tok]; ok {
				info.Source = s
				continue
			}
		}
		if l, ok := languageMap[tok]; ok && !seen[l] {
			seen[l] = true
			info.Languages = append(info.Languages, l)
		}
	}
	return info, nil
}
