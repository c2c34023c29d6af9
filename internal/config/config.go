// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Database  DatabaseConfig  `toml:"database"`
	Paths     PathsConfig     `toml:"paths"`
	Naming    NamingConfig    `toml:"naming"`
	Scoring   ScoringConfig   `toml:"scoring"`
	Scanner   ScannerConfig   `toml:"scanner"`
	Providers ProvidersConfig `toml:"providers"`
	Run       RunConfig       `toml:"run"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// PathsConfig holds the source tree and the four destination roots.
type PathsConfig struct {
	Source string `toml:"source"`
	Movies string `toml:"movies"`
	TV     string `toml:"tv"`
	Music  string `toml:"music"`
	Review string `toml:"review"`
}

// NamingConfig holds per-kind destination templates. Placeholders:
// {title}, {year}, {season:02}, {episode:02}, {ext}.
type NamingConfig struct {
	Movie        string `toml:"movie"`
	Episode      string `toml:"episode"`
	SeasonFolder string `toml:"season_folder"`
}

// ScoringConfig holds the confidence policy knobs.
type ScoringConfig struct {
	TitleWeight    float64 `toml:"title_weight"`
	YearWeight     float64 `toml:"year_weight"`
	KeywordWeight  float64 `toml:"keyword_weight"`
	MinConfidence  float64 `toml:"min_confidence"`
	YearTolerance  int     `toml:"year_tolerance"`
	YearNearCredit float64 `toml:"year_near_credit"`
}

type ScannerConfig struct {
	GroupThreshold float64 `toml:"group_threshold"`
}

// ProvidersConfig configures metadata providers. Priority lists provider
// names in lookup order; unknown names are a validation error.
type ProvidersConfig struct {
	Priority []string       `toml:"priority"`
	TMDB     *TMDBConfig    `toml:"tmdb"`
	TVMaze   *TVMazeConfig  `toml:"tvmaze"`
	IMDB     *IMDBWebConfig `toml:"imdb"`
}

type TMDBConfig struct {
	APIKey        string  `toml:"api_key"`
	RatePerSecond float64 `toml:"rate_per_second"`
}

type TVMazeConfig struct {
	RatePerSecond float64 `toml:"rate_per_second"`
}

type IMDBWebConfig struct {
	RatePerSecond float64 `toml:"rate_per_second"`
}

// RunConfig controls pipeline execution.
type RunConfig struct {
	DryRun       bool   `toml:"dry_run"`
	Workers      int    `toml:"workers"`
	Confirmation string `toml:"confirmation"` // auto or interactive
	ReportDir    string `toml:"report_dir"`
}

// Default naming templates, compatible with common media servers.
const (
	DefaultMovieTemplate        = "{title} ({year})/{title} ({year}).{ext}"
	DefaultEpisodeTemplate      = "{title}/Season {season:02}/{title} - S{season:02}E{episode:02}.{ext}"
	DefaultSeasonFolderTemplate = "{title}/Season {season:02}"
)

// Load reads and parses the configuration file, substitutes ${VAR}
// references from the environment, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(substituteEnvVars(string(data)))
}

// Parse decodes configuration from TOML text over the defaults.
func Parse(text string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Default returns a configuration with every default applied. Paths are
// the only fields without usable defaults.
func Default() *Config {
	return &Config{
		Log:      LogConfig{Level: "info"},
		Database: DatabaseConfig{Path: "./data/sortarr.db"},
		Naming: NamingConfig{
			Movie:        DefaultMovieTemplate,
			Episode:      DefaultEpisodeTemplate,
			SeasonFolder: DefaultSeasonFolderTemplate,
		},
		Scoring: ScoringConfig{
			TitleWeight:    0.5,
			YearWeight:     0.3,
			KeywordWeight:  0.2,
			MinConfidence:  0.7,
			YearTolerance:  1,
			YearNearCredit: 0.8,
		},
		Scanner: ScannerConfig{GroupThreshold: 0.8},
		Providers: ProvidersConfig{
			Priority: []string{"tmdb", "tvmaze"},
			TVMaze:   &TVMazeConfig{RatePerSecond: 2},
		},
		Run: RunConfig{
			DryRun:       true,
			Workers:      4,
			Confirmation: "auto",
			ReportDir:    "./reports",
		},
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}
