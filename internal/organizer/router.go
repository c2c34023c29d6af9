package organizer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/sortarr/internal/media"
)

// Roots are the destination tree roots per media kind plus the review
// holding area.
type Roots struct {
	Movies string
	TV     string
	Music  string
	Review string
}

// Templates are the naming templates per media kind.
type Templates struct {
	Movie        string
	Episode      string
	SeasonFolder string
}

// Router maps a decision to a destination path by applying naming
// templates under the per-kind roots. Review and failed units go under
// the review root, never into the library trees.
type Router struct {
	roots      Roots
	templates  Templates
	sourceRoot string
}

// NewRouter creates a router. sourceRoot is used to mirror the source
// layout under the review root.
func NewRouter(roots Roots, templates Templates, sourceRoot string) *Router {
	return &Router{roots: roots, templates: templates, sourceRoot: sourceRoot}
}

// Route returns the absolute destination path for an accepted identity.
// The identity should carry the chosen candidate's canonical title.
func (r *Router) Route(id media.Identity, ext string) (string, error) {
	var rel string
	switch id.Kind {
	case media.KindMovie:
		rel = r.moviePath(id.Title, id.Year, ext)
	case media.KindEpisode:
		rel = r.episodePath(id.Title, id.Season, id.Episode, ext)
	default:
		return "", fmt.Errorf("no route for kind %s", id.Kind)
	}

	dest := filepath.Join(r.rootFor(id.Kind), rel)
	if err := ValidatePath(dest, r.rootFor(id.Kind)); err != nil {
		return "", err
	}
	return dest, nil
}

// MusicPath returns the absolute destination for a tagged music file.
// rel is the tagger-supplied path relative to the music root.
func (r *Router) MusicPath(rel string) (string, error) {
	dest := filepath.Join(r.roots.Music, rel)
	if err := ValidatePath(dest, r.roots.Music); err != nil {
		return "", err
	}
	return dest, nil
}

// SeasonFolder returns the absolute destination directory for a season group.
func (r *Router) SeasonFolder(title string, season int) string {
	vars := map[string]any{
		"title":  SanitizeFilename(title),
		"season": season,
	}
	return filepath.Join(r.roots.TV, applyTemplate(r.templates.SeasonFolder, vars))
}

// ReviewPath returns the holding-area destination for a unit that could
// not be confidently placed. The source-relative layout is preserved
// under a per-reason subtree so operators can resolve ambiguity without
// touching the library trees.
func (r *Router) ReviewPath(sourcePath, reason string) string {
	rel, err := filepath.Rel(r.sourceRoot, sourcePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(sourcePath)
	}
	return filepath.Join(r.roots.Review, reason, rel)
}

// SidecarDest derives a sidecar's destination from its primary's
// destination, preserving everything after the shared base name (language
// tags, the sidecar extension).
func SidecarDest(primarySource, primaryDest, sidecarSource string) string {
	srcBase := strings.TrimSuffix(filepath.Base(primarySource), filepath.Ext(primarySource))
	dstBase := strings.TrimSuffix(filepath.Base(primaryDest), filepath.Ext(primaryDest))

	name := filepath.Base(sidecarSource)
	if strings.HasPrefix(strings.ToLower(name), strings.ToLower(srcBase)) {
		name = dstBase + name[len(srcBase):]
	}
	return filepath.Join(filepath.Dir(primaryDest), name)
}

func (r *Router) rootFor(kind media.Kind) string {
	switch kind {
	case media.KindMovie:
		return r.roots.Movies
	case media.KindEpisode, media.KindSeasonGroup:
		return r.roots.TV
	case media.KindMusicTrack, media.KindMusicAlbumGroup:
		return r.roots.Music
	default:
		return r.roots.Review
	}
}

func (r *Router) moviePath(title string, year int, ext string) string {
	tmpl := r.templates.Movie
	if year == 0 {
		// Unknown year: drop the year token instead of rendering "(0)".
		tmpl = strings.ReplaceAll(tmpl, " ({year})", "")
		tmpl = strings.ReplaceAll(tmpl, "{year}", "")
	}
	vars := map[string]any{
		"title": SanitizeFilename(title),
		"year":  year,
		"ext":   ext,
	}
	return applyTemplate(tmpl, vars)
}

func (r *Router) episodePath(title string, season, episode int, ext string) string {
	vars := map[string]any{
		"title":   SanitizeFilename(title),
		"season":  season,
		"episode": episode,
		"ext":     ext,
	}
	return applyTemplate(r.templates.Episode, vars)
}

// formatPattern matches {name} or {name:02} style placeholders.
var formatPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// applyTemplate substitutes variables into a template string.
// Supports {name} for simple substitution and {name:02} for zero-padded integers.
func applyTemplate(template string, vars map[string]any) string {
	return formatPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := formatPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		val, ok := vars[name]
		if !ok {
			return match
		}

		if len(parts) >= 3 && parts[2] != "" {
			width, err := strconv.Atoi(parts[2])
			if err == nil {
				switch v := val.(type) {
				case int:
					return fmt.Sprintf("%0*d", width, v)
				case int64:
					return fmt.Sprintf("%0*d", width, v)
				}
			}
		}

		return fmt.Sprintf("%v", val)
	})
}
