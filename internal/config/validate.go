package config

import (
	"fmt"
	"math"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validConfirmations = map[string]bool{
	"auto": true, "interactive": true, "": true,
}

var knownProviders = map[string]bool{
	"tmdb": true, "tvmaze": true, "imdb": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Paths.Source == "" {
		errs = append(errs, "paths.source: required")
	}
	if c.Paths.Movies == "" && c.Paths.TV == "" && c.Paths.Music == "" {
		errs = append(errs, "paths: at least one destination root (movies, tv, music) must be configured")
	}
	if c.Paths.Review == "" {
		errs = append(errs, "paths.review: required")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if !validConfirmations[c.Run.Confirmation] {
		errs = append(errs, fmt.Sprintf("run.confirmation: must be auto or interactive; got %q", c.Run.Confirmation))
	}
	if c.Run.Workers < 1 {
		errs = append(errs, fmt.Sprintf("run.workers: must be at least 1, got %d", c.Run.Workers))
	}

	s := c.Scoring
	weightSum := s.TitleWeight + s.YearWeight + s.KeywordWeight
	if math.Abs(weightSum-1.0) > 0.001 {
		errs = append(errs, fmt.Sprintf("scoring: weights must sum to 1.0, got %.3f", weightSum))
	}
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		errs = append(errs, fmt.Sprintf("scoring.min_confidence: must be in [0,1], got %g", s.MinConfidence))
	}
	if s.YearNearCredit < 0 || s.YearNearCredit > 1 {
		errs = append(errs, fmt.Sprintf("scoring.year_near_credit: must be in [0,1], got %g", s.YearNearCredit))
	}
	if s.YearTolerance < 0 {
		errs = append(errs, fmt.Sprintf("scoring.year_tolerance: must not be negative, got %d", s.YearTolerance))
	}

	if t := c.Scanner.GroupThreshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Sprintf("scanner.group_threshold: must be in (0,1], got %g", t))
	}

	if len(c.Providers.Priority) == 0 {
		errs = append(errs, "providers.priority: at least one provider must be configured")
	}
	for _, name := range c.Providers.Priority {
		if !knownProviders[name] {
			errs = append(errs, fmt.Sprintf("providers.priority: unknown provider %q", name))
			continue
		}
		switch name {
		case "tmdb":
			if c.Providers.TMDB == nil || c.Providers.TMDB.APIKey == "" {
				errs = append(errs, "providers.tmdb.api_key: required when tmdb is in priority list")
			}
		}
	}

	return errs
}
