// Package media defines the core types that flow through the organizing
// pipeline: units discovered on disk, parsed identities, metadata
// candidates, and the decision made for each unit.
package media

import (
	"fmt"
	"time"
)

// Kind classifies what a unit is.
type Kind string

const (
	KindMovie           Kind = "movie"
	KindEpisode         Kind = "tv-episode"
	KindSeasonGroup     Kind = "tv-season-group"
	KindMusicTrack      Kind = "music-track"
	KindMusicAlbumGroup Kind = "music-album-group"
	KindUnknown         Kind = "unknown"
)

// IsGroup reports whether the kind represents a directory-derived group
// rather than a single file.
func (k Kind) IsGroup() bool {
	return k == KindSeasonGroup || k == KindMusicAlbumGroup
}

// Unit is one file or one directory-derived group being organized.
type Unit struct {
	ID           string
	Path         string // file path, or directory path for groups
	Kind         Kind
	RawName      string
	SidecarPaths []string // subtitles, nfo, images sharing the base name
	GroupID      string   // empty for loose files
	Files        []string // member files for groups, nil otherwise
	Tech         *TechInfo
}

// TechInfo is technical metadata probed from a media file. Codecs and
// resolutions are normalized ("h265", "1080p"); any field may be empty
// when the prober could not determine it.
type TechInfo struct {
	VideoCodec string   `json:"video_codec,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
	Source     string   `json:"source,omitempty"`
	Languages  []string `json:"languages,omitempty"`
}

// Empty reports whether nothing was probed.
func (t TechInfo) Empty() bool {
	return t.VideoCodec == "" && t.Resolution == "" && t.Source == "" && len(t.Languages) == 0
}

// Identity is the parsed, immutable identity derived from a raw name.
// Year is 0 when unknown. Season/Episode are only meaningful for TV kinds.
type Identity struct {
	Kind    Kind
	Title   string
	Year    int
	Season  int
	Episode int
}

// Key returns the cache key for this identity. It is a pure function of
// the identity so that the same title discovered via different paths
// shares cache entries.
func (id Identity) Key() string {
	if id.Year > 0 {
		return fmt.Sprintf("%s_%s_%d", id.Kind, id.Title, id.Year)
	}
	return fmt.Sprintf("%s_%s", id.Kind, id.Title)
}

// Candidate is one metadata-provider result for an identity.
type Candidate struct {
	Provider     string  `json:"provider"`
	ExternalID   string  `json:"external_id"`
	Title        string  `json:"title"`
	Year         int     `json:"year,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
	ProviderRank int     `json:"provider_rank"` // priority of the provider that returned it, lower is better
}

// Outcome is the terminal state of a unit for one run.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeReview   Outcome = "review"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// Breakdown holds the individual scoring components behind a confidence
// value, kept for report transparency.
type Breakdown struct {
	TitleSimilarity float64 `json:"title_similarity"`
	YearMatch       float64 `json:"year_match"`
	KeywordOverlap  float64 `json:"keyword_overlap"`
}

// ScoredCandidate pairs a candidate with its computed confidence.
type ScoredCandidate struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Decision is the single per-run outcome for a unit.
type Decision struct {
	UnitID     string
	Outcome    Outcome
	Chosen     *Candidate
	Confidence float64
	Breakdown  Breakdown
	Candidates []ScoredCandidate // full scored list, best first
	Reason     string            // reason code for review/failed/skipped outcomes
	DestPath   string
	DecidedAt  time.Time
}

// Reason codes attached to non-accepted decisions.
const (
	ReasonLowConfidence = "low_confidence"
	ReasonParseFailure  = "parse_failure"
	ReasonNoCandidates  = "no_candidates"
	ReasonAlreadyDone   = "already_processed"
	ReasonCollision     = "destination_collision"
	ReasonMoveError     = "move_error"
	ReasonDeclined      = "declined_by_operator"
	ReasonMusicUntagged = "music_untagged"
)
