// Package medianame parses raw media file and directory names into
// normalized identities: a title plus optional year for movies, or a show
// title plus season/episode for TV.
package medianame

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/sortarr/internal/media"
)

// ErrUnparsable is returned when no usable title survives cleaning.
// Callers must treat this as a parse failure, never as a default identity.
var ErrUnparsable = errors.New("no title could be extracted")

// mediaExtensions are stripped before parsing. Unknown extensions are left
// alone since a trailing ".1984" style token may be part of the name.
var mediaExtensions = map[string]struct{}{
	".mkv": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".flv": {},
	".webm": {}, ".m4v": {}, ".mp3": {}, ".flac": {}, ".wav": {}, ".m4a": {},
	".ogg": {}, ".wma": {}, ".aac": {}, ".srt": {}, ".vtt": {}, ".sub": {},
	".ass": {}, ".ssa": {}, ".idx": {},
}

var (
	separatorRe = regexp.MustCompile(`[._]+|\s+`)
	bracketRe   = regexp.MustCompile(`\[[^\]]*\]|\{[^}]*\}`)

	// Episode markers, tried in order; the first match wins.
	episodeMarkers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bS(\d{1,2})\s?E(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`),
		regexp.MustCompile(`(?i)\bSeason\s+(\d{1,2})\s+Episode\s+(\d{1,3})\b`),
	}

	// Years in parentheses are unambiguous; bare years are taken last-first
	// since titles rarely lead with a year but often trail with one.
	parenYearRe = regexp.MustCompile(`\((19\d{2}|20[0-2]\d)\)`)
	bareYearRe  = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d)\b`)

	parenRe = regexp.MustCompile(`\([^)]*\)`)
)

// Parse extracts a normalized identity from a raw file or directory name.
// TV episode markers take precedence over year detection.
func Parse(rawName string) (media.Identity, error) {
	name := stripExtension(rawName)
	name = bracketRe.ReplaceAllString(name, " ")
	name = separatorRe.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	for _, re := range episodeMarkers {
		loc := re.FindStringSubmatchIndex(name)
		if loc == nil {
			continue
		}
		season, _ := strconv.Atoi(name[loc[2]:loc[3]])
		episode, _ := strconv.Atoi(name[loc[4]:loc[5]])
		title := cleanTail(name[:loc[0]], false)
		if title == "" {
			return media.Identity{}, ErrUnparsable
		}
		return media.Identity{
			Kind:    media.KindEpisode,
			Title:   SmartTitle(title),
			Season:  season,
			Episode: episode,
		}, nil
	}

	if yearStr, before, ok := findYear(name); ok {
		year, _ := strconv.Atoi(yearStr)
		title := cleanTail(before, false)
		if title == "" {
			return media.Identity{}, ErrUnparsable
		}
		return media.Identity{
			Kind:  media.KindMovie,
			Title: SmartTitle(title),
			Year:  year,
		}, nil
	}

	title := cleanTail(name, true)
	if title == "" {
		return media.Identity{}, ErrUnparsable
	}
	return media.Identity{Kind: media.KindMovie, Title: SmartTitle(title)}, nil
}

// HasEpisodeMarker reports whether the name carries a season/episode
// marker, without doing a full parse.
func HasEpisodeMarker(rawName string) bool {
	name := separatorRe.ReplaceAllString(stripExtension(rawName), " ")
	for _, re := range episodeMarkers {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// findYear locates the year token to split on. It returns the year string,
// the text preceding it, and whether a year was found.
func findYear(name string) (year, before string, ok bool) {
	if loc := parenYearRe.FindStringSubmatchIndex(name); loc != nil {
		return name[loc[2]:loc[3]], name[:loc[0]], true
	}
	locs := bareYearRe.FindAllStringSubmatchIndex(name, -1)
	if len(locs) == 0 {
		return "", "", false
	}
	last := locs[len(locs)-1]
	// A year with nothing before it is the title, not a year tag
	// (e.g. "2012", "1917").
	if strings.TrimSpace(name[:last[0]]) == "" {
		return "", "", false
	}
	return name[last[2]:last[3]], name[:last[0]], true
}

// cleanTail strips release noise and parenthesized remnants from the end
// of a title fragment. Group-tag stripping is only safe when no year or
// episode marker bounded the title, so callers opt into it.
func cleanTail(s string, stripGroups bool) string {
	s = parenRe.ReplaceAllString(s, " ")
	fields := strings.Fields(s)
	for len(fields) > 0 {
		last := fields[len(fields)-1]
		if !isNoiseToken(last) && !(stripGroups && isGroupTag(last)) {
			break
		}
		fields = fields[:len(fields)-1]
	}
	s = strings.Join(fields, " ")
	return strings.Trim(s, " -")
}

func stripExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name
	}
	if _, ok := mediaExtensions[strings.ToLower(name[idx:])]; ok {
		return name[:idx]
	}
	return name
}

// smallWords stay lowercase in title case, except when leading.
var smallWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "but": {}, "or": {}, "for": {},
	"nor": {}, "on": {}, "at": {}, "to": {}, "by": {}, "in": {}, "of": {},
}

// SmartTitle applies display title casing: every word capitalized except
// small connective words in non-leading positions. Hyphenated words
// capitalize each segment ("spider-man" becomes "Spider-Man").
func SmartTitle(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if i > 0 {
			if _, small := smallWords[w]; small {
				continue
			}
		}
		parts := strings.Split(w, "-")
		for j, p := range parts {
			if p != "" {
				parts[j] = strings.ToUpper(p[:1]) + p[1:]
			}
		}
		words[i] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}
