// Package scanner walks a source tree, classifies files by extension, and
// clusters related files into groups (season packs, albums) or loose
// singleton units.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/pkg/medianame"
)

// Result is everything one scan discovered.
type Result struct {
	Units        []*media.Unit
	EmptyDirs    []string // directories containing no media files
	Unrecognized []string // files with unrecognized extensions
}

// Scanner discovers media units under a source root.
type Scanner struct {
	root           string
	groupThreshold float64
	log            *slog.Logger
}

// New creates a scanner. groupThreshold is the fraction of a directory's
// media files that must share one category for the directory to become a
// group.
func New(root string, groupThreshold float64, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{root: root, groupThreshold: groupThreshold, log: log}
}

// dirContents holds the immediate media-relevant files of one directory.
type dirContents struct {
	videos   []string
	audios   []string
	sidecars []string
}

// Scan runs both classification passes and returns the discovered units.
// Pass one classifies directories deepest-first by extension majority;
// pass two picks up every file the first pass left behind.
func (s *Scanner) Scan() (*Result, error) {
	dirs, res, err := s.collect()
	if err != nil {
		return nil, err
	}

	// Deepest directories first, lexicographic within a depth, so group
	// formation is deterministic.
	order := make([]string, 0, len(dirs))
	for d := range dirs {
		order = append(order, d)
	}
	sort.Slice(order, func(i, j int) bool {
		di := strings.Count(order[i], string(filepath.Separator))
		dj := strings.Count(order[j], string(filepath.Separator))
		if di != dj {
			return di > dj
		}
		return order[i] < order[j]
	})

	// A directory is empty only if its whole subtree holds no media files.
	// Marking a parent processed just because its media sits in
	// subdirectories would make later drops into that parent invisible.
	hasMedia := make(map[string]bool)
	for _, dc := range dirs {
		for _, f := range append(append([]string(nil), dc.videos...), dc.audios...) {
			for d := filepath.Dir(f); strings.HasPrefix(d, s.root); d = filepath.Dir(d) {
				hasMedia[d] = true
				if d == s.root {
					break
				}
			}
		}
	}
	for _, dir := range order {
		if dir != s.root && !hasMedia[dir] {
			res.EmptyDirs = append(res.EmptyDirs, dir)
		}
	}
	sort.Strings(res.EmptyDirs)

	claimed := make(map[string]bool)

	// Pass one: directory groups.
	for _, dir := range order {
		dc := dirs[dir]
		total := len(dc.videos) + len(dc.audios)
		if total == 0 {
			continue
		}

		if unit := s.groupFor(dir, dc, total); unit != nil {
			res.Units = append(res.Units, unit)
			for _, f := range dc.videos {
				claimed[f] = true
			}
			for _, f := range dc.audios {
				claimed[f] = true
			}
			for _, f := range dc.sidecars {
				claimed[f] = true
			}
		}
	}

	// Pass two: loose files, each on its own.
	for _, dir := range order {
		dc := dirs[dir]
		for _, f := range dc.videos {
			if claimed[f] {
				continue
			}
			res.Units = append(res.Units, s.looseVideo(f, dc.sidecars))
		}
		for _, f := range dc.audios {
			if claimed[f] {
				continue
			}
			res.Units = append(res.Units, &media.Unit{
				ID:      uuid.NewString(),
				Path:    f,
				Kind:    media.KindMusicTrack,
				RawName: filepath.Base(f),
			})
		}
	}

	sort.Slice(res.Units, func(i, j int) bool { return res.Units[i].Path < res.Units[j].Path })
	s.log.Info("scan complete",
		"units", len(res.Units),
		"empty_dirs", len(res.EmptyDirs),
		"unrecognized", len(res.Unrecognized))
	return res, nil
}

// collect walks the tree once and buckets files per directory.
func (s *Scanner) collect() (map[string]*dirContents, *Result, error) {
	if _, err := os.Stat(s.root); err != nil {
		return nil, nil, fmt.Errorf("source root: %w", err)
	}

	dirs := make(map[string]*dirContents)
	res := &Result{}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			dirs[path] = &dirContents{}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		dc := dirs[filepath.Dir(path)]
		switch {
		case IsVideo(path):
			if isSample(path) {
				return nil
			}
			dc.videos = append(dc.videos, path)
		case IsAudio(path):
			dc.audios = append(dc.audios, path)
		case IsSidecar(path):
			dc.sidecars = append(dc.sidecars, path)
		default:
			res.Unrecognized = append(res.Unrecognized, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk source tree: %w", err)
	}
	return dirs, res, nil
}

// groupFor decides whether a directory's contents form a single organizable
// group. Movie-majority directories return nil: distinct films in one folder
// each need their own lookup, so their files fall through to pass two.
func (s *Scanner) groupFor(dir string, dc *dirContents, total int) *media.Unit {
	episodes := 0
	for _, f := range dc.videos {
		if medianame.HasEpisodeMarker(filepath.Base(f)) {
			episodes++
		}
	}

	frac := func(n int) float64 { return float64(n) / float64(total) }

	switch {
	case frac(len(dc.audios)) >= s.groupThreshold:
		id := uuid.NewString()
		return &media.Unit{
			ID:      id,
			GroupID: id,
			Path:    dir,
			Kind:    media.KindMusicAlbumGroup,
			RawName: filepath.Base(dir),
			Files:   append([]string(nil), dc.audios...),
		}
	case episodes >= 2 && frac(episodes) >= s.groupThreshold:
		id := uuid.NewString()
		unit := &media.Unit{
			ID:      id,
			GroupID: id,
			Path:    dir,
			Kind:    media.KindSeasonGroup,
			RawName: filepath.Base(dir),
			Files:   append([]string(nil), dc.videos...),
		}
		for _, f := range dc.videos {
			unit.SidecarPaths = append(unit.SidecarPaths, matchSidecars(f, dc.sidecars)...)
		}
		return unit
	default:
		return nil
	}
}

func (s *Scanner) looseVideo(path string, sidecars []string) *media.Unit {
	kind := media.KindMovie
	if medianame.HasEpisodeMarker(filepath.Base(path)) {
		kind = media.KindEpisode
	}
	return &media.Unit{
		ID:           uuid.NewString(),
		Path:         path,
		Kind:         kind,
		RawName:      filepath.Base(path),
		SidecarPaths: matchSidecars(path, sidecars),
	}
}

// matchSidecars returns the sidecar files belonging to a primary file:
// same directory, base name equal to the primary's base or extending it
// with a language tag ("show.s02e05.en.srt" follows "show.s02e05.mkv").
func matchSidecars(primary string, sidecars []string) []string {
	base := strings.TrimSuffix(filepath.Base(primary), filepath.Ext(primary))
	var out []string
	for _, sc := range sidecars {
		scBase := strings.TrimSuffix(filepath.Base(sc), filepath.Ext(sc))
		if strings.EqualFold(scBase, base) {
			out = append(out, sc)
			continue
		}
		if len(scBase) > len(base) && strings.EqualFold(scBase[:len(base)], base) && scBase[len(base)] == '.' {
			out = append(out, sc)
		}
	}
	return out
}
