package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/pkg/medianame"
)

// parsedName is the JSON-friendly view of a parsed identity.
type parsedName struct {
	Kind       media.Kind `json:"kind"`
	Title      string     `json:"title"`
	Year       int        `json:"year,omitempty"`
	Season     int        `json:"season,omitempty"`
	Episode    int        `json:"episode,omitempty"`
	CleanTitle string     `json:"clean_title"`
	CacheKey   string     `json:"cache_key"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <name>",
	Short: "Parse a file or directory name (local, no network)",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	id, err := medianame.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parse %q: %w", args[0], err)
	}

	result := parsedName{
		Kind:       id.Kind,
		Title:      id.Title,
		Year:       id.Year,
		Season:     id.Season,
		Episode:    id.Episode,
		CleanTitle: medianame.CleanTitle(id.Title),
		CacheKey:   id.Key(),
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Kind:        %s\n", result.Kind)
	fmt.Printf("Title:       %s\n", result.Title)
	if result.Year > 0 {
		fmt.Printf("Year:        %d\n", result.Year)
	}
	if result.Kind == media.KindEpisode {
		fmt.Printf("Season:      %d\n", result.Season)
		fmt.Printf("Episode:     %d\n", result.Episode)
	}
	fmt.Printf("Clean title: %s\n", result.CleanTitle)
	fmt.Printf("Cache key:   %s\n", result.CacheKey)
	return nil
}
