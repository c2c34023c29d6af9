// Package tmdb provides a search client for The Movie Database API.
package tmdb

import "strconv"

// movieResult is one entry of a /search/movie response.
type movieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"` // "1999-03-30"
	Overview    string  `json:"overview"`
	Popularity  float64 `json:"popularity"`
}

// tvResult is one entry of a /search/tv response.
type tvResult struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	Popularity   float64 `json:"popularity"`
}

type movieSearchResponse struct {
	Results []movieResult `json:"results"`
}

type tvSearchResponse struct {
	Results []tvResult `json:"results"`
}

// yearOf extracts the year from a TMDB date string.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
