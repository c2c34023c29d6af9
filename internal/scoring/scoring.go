// Package scoring turns title similarity, year proximity, and keyword
// overlap into a single confidence value and ranks metadata candidates
// deterministically.
package scoring

import (
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/pkg/medianame"
)

// Config holds the scoring policy. Weights must sum to 1.
type Config struct {
	TitleWeight    float64
	YearWeight     float64
	KeywordWeight  float64
	MinConfidence  float64
	YearTolerance  int     // years of difference still earning partial credit
	YearNearCredit float64 // credit for a within-tolerance mismatch
}

// DefaultConfig matches the documented policy defaults.
func DefaultConfig() Config {
	return Config{
		TitleWeight:    0.5,
		YearWeight:     0.3,
		KeywordWeight:  0.2,
		MinConfidence:  0.7,
		YearTolerance:  1,
		YearNearCredit: 0.8,
	}
}

// Scorer evaluates candidates against a parsed identity.
type Scorer struct {
	cfg Config
}

// New creates a scorer with the given policy.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the confidence that candidate c is the correct match for
// the identity. When the identity carries no year, the year component is
// excluded and the remaining weights are renormalized rather than
// penalizing every candidate.
func (s *Scorer) Score(id media.Identity, c media.Candidate) (float64, media.Breakdown) {
	return s.ScoreWithHints(id, c, nil)
}

// ScoreWithHints is Score with probed technical metadata folded in.
// The hints only matter for a yearless identity: an HEVC or AV1 file is
// unlikely to be a pre-2015 title, and an XviD rip is unlikely to be a
// recent one, so a candidate year in the codec's era earns a small
// credit.
func (s *Scorer) ScoreWithHints(id media.Identity, c media.Candidate, tech *media.TechInfo) (float64, media.Breakdown) {
	b := media.Breakdown{
		TitleSimilarity: titleSimilarity(id.Title, c.Title),
		KeywordOverlap:  keywordOverlap(id.Title, c.Title),
	}

	if id.Year == 0 {
		denom := s.cfg.TitleWeight + s.cfg.KeywordWeight
		if denom == 0 {
			return 0, b
		}
		score := (s.cfg.TitleWeight*b.TitleSimilarity + s.cfg.KeywordWeight*b.KeywordOverlap) / denom
		if tech != nil && c.Year != 0 {
			score += s.cfg.YearWeight * codecEraCredit(tech.VideoCodec, c.Year)
		}
		return clamp(score), b
	}

	b.YearMatch = s.yearMatch(id.Year, c.Year)
	score := s.cfg.TitleWeight*b.TitleSimilarity +
		s.cfg.YearWeight*b.YearMatch +
		s.cfg.KeywordWeight*b.KeywordOverlap
	return clamp(score), b
}

// Rank scores every candidate and returns them best first. Ties are broken
// by provider priority, then popularity, then first-seen order, so the
// result is stable across runs.
func (s *Scorer) Rank(id media.Identity, candidates []media.Candidate) []media.ScoredCandidate {
	return s.RankWithHints(id, candidates, nil)
}

// RankWithHints is Rank with probed technical metadata applied to every
// score.
func (s *Scorer) RankWithHints(id media.Identity, candidates []media.Candidate, tech *media.TechInfo) []media.ScoredCandidate {
	scored := make([]media.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		score, breakdown := s.ScoreWithHints(id, c, tech)
		scored[i] = media.ScoredCandidate{Candidate: c, Score: score, Breakdown: breakdown}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Candidate.ProviderRank != b.Candidate.ProviderRank {
			return a.Candidate.ProviderRank < b.Candidate.ProviderRank
		}
		if a.Candidate.Popularity != b.Candidate.Popularity {
			return a.Candidate.Popularity > b.Candidate.Popularity
		}
		return false
	})
	return scored
}

// Meets reports whether a confidence value clears the acceptance
// threshold. The boundary is inclusive: a score exactly at min_confidence
// is accepted.
func (s *Scorer) Meets(score float64) bool {
	return score >= s.cfg.MinConfidence
}

// eraCredit matches the flat bonus a codec-era agreement earns on the
// year component.
const eraCredit = 0.1

func codecEraCredit(codec string, year int) float64 {
	switch codec {
	case "h265", "av1", "vp9":
		if year >= 2015 {
			return eraCredit
		}
	case "xvid", "divx":
		if year <= 2010 {
			return eraCredit
		}
	}
	return 0
}

func (s *Scorer) yearMatch(query, candidate int) float64 {
	if candidate == 0 {
		return 0
	}
	diff := query - candidate
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1
	case diff <= s.cfg.YearTolerance:
		return s.cfg.YearNearCredit
	default:
		return 0
	}
}

func titleSimilarity(query, candidate string) float64 {
	a := medianame.CleanTitle(query)
	b := medianame.CleanTitle(candidate)
	if a == "" || b == "" {
		return 0
	}
	return float64(edlib.JaroWinklerSimilarity(a, b))
}

// keywordOverlap is the Jaccard fraction of significant title tokens
// shared by both sides.
func keywordOverlap(query, candidate string) float64 {
	qWords := medianame.Keywords(query)
	cWords := medianame.Keywords(candidate)
	if len(qWords) == 0 || len(cWords) == 0 {
		return 0
	}

	qSet := toSet(qWords)
	cSet := toSet(cWords)
	shared := 0
	for w := range qSet {
		if cSet[w] {
			shared++
		}
	}
	union := len(qSet) + len(cSet) - shared
	return float64(shared) / float64(union)
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
