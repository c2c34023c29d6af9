package medianame

import (
	"regexp"
	"strings"
)

// Release noise recognized at the tail of a name when no year is present.
// Grouped the way release names are actually assembled: resolution, codec,
// audio, source, edition, language, then scene-group vocabulary.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(2160p|1080p|1080i|720p|720i|480p|576p|4k|uhd|fullhd|hd|sd)$`),
	regexp.MustCompile(`(?i)^(x264|x265|h264|h265|hevc|avc|xvid|divx|av1|vp9|10bit|8bit)$`),
	regexp.MustCompile(`(?i)^(hdr|hdr10|hdr10plus|dv|dovi|hlg)$`),
	regexp.MustCompile(`(?i)^(aac|ac3|eac3|dts|dtshd|truehd|atmos|flac|mp3|pcm|opus|vorbis)$`),
	regexp.MustCompile(`(?i)^(dd[257]?\.?[01]|[257]\.[01]|stereo|mono|dualaudio)$`),
	regexp.MustCompile(`(?i)^(bluray|bdrip|brrip|hdrip|webrip|webdl|web|hdtv|dvdrip|dvdscr|hdcam|cam|telesync|telecine|tvrip|satrip|remux)$`),
	regexp.MustCompile(`(?i)^(proper|repack|rerip|extended|unrated|theatrical|imax|remastered|restored|internal|limited|retail|complete|multi)$`),
	regexp.MustCompile(`(?i)^(english|spanish|french|german|italian|japanese|korean|latino|castellano|eng|esp|fra|ger|ita|jap|kor|subs?|subbed)$`),
	regexp.MustCompile(`(?i)^(yify|yts|rarbg|ettv|psa|qxr|amiable|sparks|ntb|flux|ion10)$`),
}

// groupSuffixRe matches a trailing "CODEC-GROUP" release tag. The group
// half must be all uppercase or digits; hyphenated titles like
// "Spider-Man" keep lowercase letters and pass through.
var groupSuffixRe = regexp.MustCompile(`^[A-Za-z0-9]+-[A-Z0-9]{2,}$`)

func isNoiseToken(tok string) bool {
	tok = strings.Trim(tok, "-[](){}")
	if tok == "" {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(tok) {
			return true
		}
	}
	return false
}

// isGroupTag reports whether tok looks like a scene release-group suffix.
func isGroupTag(tok string) bool {
	return groupSuffixRe.MatchString(strings.Trim(tok, "[](){}"))
}
