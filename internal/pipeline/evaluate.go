package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/internal/organizer"
	"github.com/vmunix/sortarr/pkg/medianame"
)

// planned is one unit's decision plus the moves that realize it.
type planned struct {
	unit     *media.Unit
	decision media.Decision

	// plans in execution order; the first is the unit's primary move.
	plans []organizer.MovePlan

	// groupPath, when set, is ledgered after every plan succeeds so the
	// whole directory is skipped on rerun.
	groupPath string
}

// evaluate derives a decision and move plans for one unit. It returns an
// error only on context cancellation; every per-unit failure becomes a
// review or failed decision instead.
func (p *Pipeline) evaluate(ctx context.Context, unit *media.Unit) (*planned, error) {
	switch unit.Kind {
	case media.KindMusicTrack, media.KindMusicAlbumGroup:
		return p.evaluateMusic(unit), nil
	case media.KindSeasonGroup:
		return p.evaluateSeasonGroup(ctx, unit)
	default:
		return p.evaluateSingle(ctx, unit)
	}
}

func (p *Pipeline) evaluateSingle(ctx context.Context, unit *media.Unit) (*planned, error) {
	id, err := medianame.Parse(unit.RawName)
	if err != nil {
		return p.toReview(unit, media.ReasonParseFailure, nil), nil
	}

	if tech, err := p.deps.Prober.Probe(unit.Path); err == nil && !tech.Empty() {
		unit.Tech = &tech
	}

	candidates, err := p.deps.Resolver.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return p.toReview(unit, media.ReasonNoCandidates, nil), nil
	}

	scored := p.deps.Scorer.RankWithHints(id, candidates, unit.Tech)
	best := scored[0]
	if !p.deps.Scorer.Meets(best.Score) {
		return p.toReview(unit, media.ReasonLowConfidence, scored), nil
	}

	canonical := media.Identity{
		Kind:    id.Kind,
		Title:   best.Candidate.Title,
		Year:    best.Candidate.Year,
		Season:  id.Season,
		Episode: id.Episode,
	}
	dest, err := p.deps.Router.Route(canonical, ext(unit.Path))
	if err != nil {
		p.log.Warn("routing failed", "unit", unit.Path, "error", err)
		return p.failed(unit, media.ReasonMoveError, scored), nil
	}

	pl := &planned{
		unit: unit,
		decision: media.Decision{
			UnitID:     unit.ID,
			Outcome:    media.OutcomeAccepted,
			Chosen:     &best.Candidate,
			Confidence: best.Score,
			Breakdown:  best.Breakdown,
			Candidates: scored,
			DestPath:   dest,
			DecidedAt:  time.Now(),
		},
	}
	pl.plans = append(pl.plans, p.movePlan(unit, unit.Path, dest, unit.SidecarPaths, media.OutcomeAccepted))
	return pl, nil
}

// evaluateSeasonGroup resolves the show once for the whole pack, then
// routes each member by its own episode marker.
func (p *Pipeline) evaluateSeasonGroup(ctx context.Context, unit *media.Unit) (*planned, error) {
	show, ok := groupShowIdentity(unit)
	if !ok {
		return p.toReview(unit, media.ReasonParseFailure, nil), nil
	}

	candidates, err := p.deps.Resolver.Resolve(ctx, show)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return p.toReview(unit, media.ReasonNoCandidates, nil), nil
	}

	scored := p.deps.Scorer.Rank(show, candidates)
	best := scored[0]
	if !p.deps.Scorer.Meets(best.Score) {
		return p.toReview(unit, media.ReasonLowConfidence, scored), nil
	}

	pl := &planned{
		unit: unit,
		decision: media.Decision{
			UnitID:     unit.ID,
			Outcome:    media.OutcomeAccepted,
			Chosen:     &best.Candidate,
			Confidence: best.Score,
			Breakdown:  best.Breakdown,
			Candidates: scored,
			DecidedAt:  time.Now(),
		},
		groupPath: unit.Path,
	}

	for _, member := range unit.Files {
		memberID, err := medianame.Parse(filepath.Base(member))
		if err != nil || memberID.Kind != media.KindEpisode {
			// One unparsable member goes to review without holding
			// back the rest of the pack.
			dest := p.deps.Router.ReviewPath(member, media.ReasonParseFailure)
			pl.plans = append(pl.plans, p.movePlan(unit, member, dest, sidecarsFor(member, unit.SidecarPaths), media.OutcomeReview))
			continue
		}
		canonical := media.Identity{
			Kind:    media.KindEpisode,
			Title:   best.Candidate.Title,
			Season:  memberID.Season,
			Episode: memberID.Episode,
		}
		dest, err := p.deps.Router.Route(canonical, ext(member))
		if err != nil {
			p.log.Warn("routing failed", "member", member, "error", err)
			dest = p.deps.Router.ReviewPath(member, media.ReasonMoveError)
			pl.plans = append(pl.plans, p.movePlan(unit, member, dest, sidecarsFor(member, unit.SidecarPaths), media.OutcomeReview))
			continue
		}
		pl.plans = append(pl.plans, p.movePlan(unit, member, dest, sidecarsFor(member, unit.SidecarPaths), media.OutcomeAccepted))
	}
	return pl, nil
}

func (p *Pipeline) evaluateMusic(unit *media.Unit) *planned {
	mapping, err := p.deps.Tagger.Tag(unit)
	if err != nil {
		if !errors.Is(err, organizer.ErrUntagged) {
			p.log.Warn("music tagger failed", "unit", unit.Path, "error", err)
		}
		return p.toReview(unit, media.ReasonMusicUntagged, nil)
	}

	pl := &planned{
		unit: unit,
		decision: media.Decision{
			UnitID:     unit.ID,
			Outcome:    media.OutcomeAccepted,
			Confidence: 1.0,
			DecidedAt:  time.Now(),
		},
	}
	if unit.Kind.IsGroup() {
		pl.groupPath = unit.Path
	}
	for _, src := range primaryFiles(unit) {
		rel, ok := mapping[src]
		if !ok {
			dest := p.deps.Router.ReviewPath(src, media.ReasonMusicUntagged)
			pl.plans = append(pl.plans, p.movePlan(unit, src, dest, nil, media.OutcomeReview))
			continue
		}
		dest, err := p.deps.Router.MusicPath(rel)
		if err != nil {
			dest = p.deps.Router.ReviewPath(src, media.ReasonMoveError)
			pl.plans = append(pl.plans, p.movePlan(unit, src, dest, nil, media.OutcomeReview))
			continue
		}
		pl.plans = append(pl.plans, p.movePlan(unit, src, dest, nil, media.OutcomeAccepted))
	}
	return pl
}

// toReview plans the whole unit into the review holding area, preserving
// its source-relative layout under a per-reason subtree.
func (p *Pipeline) toReview(unit *media.Unit, reason string, scored []media.ScoredCandidate) *planned {
	pl := &planned{
		unit: unit,
		decision: media.Decision{
			UnitID:     unit.ID,
			Outcome:    media.OutcomeReview,
			Reason:     reason,
			Candidates: scored,
			DecidedAt:  time.Now(),
		},
	}
	if len(scored) > 0 {
		pl.decision.Confidence = scored[0].Score
	}
	if unit.Kind.IsGroup() {
		pl.groupPath = unit.Path
		for _, member := range primaryFiles(unit) {
			dest := p.deps.Router.ReviewPath(member, reason)
			pl.plans = append(pl.plans, p.movePlan(unit, member, dest, sidecarsFor(member, unit.SidecarPaths), media.OutcomeReview))
		}
		return pl
	}
	dest := p.deps.Router.ReviewPath(unit.Path, reason)
	pl.decision.DestPath = dest
	pl.plans = append(pl.plans, p.movePlan(unit, unit.Path, dest, unit.SidecarPaths, media.OutcomeReview))
	return pl
}

// failed records a terminal failure without planning any move.
func (p *Pipeline) failed(unit *media.Unit, reason string, scored []media.ScoredCandidate) *planned {
	return &planned{
		unit: unit,
		decision: media.Decision{
			UnitID:     unit.ID,
			Outcome:    media.OutcomeFailed,
			Reason:     reason,
			Candidates: scored,
			DecidedAt:  time.Now(),
		},
	}
}

func (p *Pipeline) movePlan(unit *media.Unit, src, dest string, sidecars []string, outcome media.Outcome) organizer.MovePlan {
	plan := organizer.MovePlan{
		UnitID:     unit.ID,
		SourcePath: src,
		DestPath:   dest,
		Outcome:    outcome,
	}
	for _, sc := range sidecars {
		plan.Sidecars = append(plan.Sidecars, organizer.SidecarMove{
			Source: sc,
			Dest:   organizer.SidecarDest(src, dest, sc),
		})
	}
	return plan
}

// groupShowIdentity derives the show identity for a season pack from the
// first member whose name parses as an episode.
func groupShowIdentity(unit *media.Unit) (media.Identity, bool) {
	for _, member := range unit.Files {
		id, err := medianame.Parse(filepath.Base(member))
		if err == nil && id.Kind == media.KindEpisode {
			return media.Identity{Kind: media.KindEpisode, Title: id.Title}, true
		}
	}
	return media.Identity{}, false
}

// primaryFiles returns a unit's member files, or its own path for loose
// units.
func primaryFiles(unit *media.Unit) []string {
	if len(unit.Files) > 0 {
		return unit.Files
	}
	return []string{unit.Path}
}

// sidecarsFor filters a group's sidecar pool down to the ones belonging
// to one member.
func sidecarsFor(member string, sidecars []string) []string {
	base := strings.TrimSuffix(filepath.Base(member), filepath.Ext(member))
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

func ext(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
