// Package tvmaze provides a client for the TVmaze show search API.
// The API is keyless and returns shows ranked by relevance.
package tvmaze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vmunix/sortarr/internal/media"
)

const defaultBaseURL = "https://api.tvmaze.com"

// ErrRateLimited is returned when TVmaze rejects a request with HTTP 429.
var ErrRateLimited = errors.New("rate limited: too many requests")

// Client is a TVmaze API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a new TVmaze client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies this provider in candidates and configuration.
func (c *Client) Name() string { return "tvmaze" }

// Search queries /search/shows. TVmaze only knows television; movie and
// music identities return no candidates rather than noise.
func (c *Client) Search(ctx context.Context, id media.Identity) ([]media.Candidate, error) {
	if id.Kind != media.KindEpisode && id.Kind != media.KindSeasonGroup {
		return nil, nil
	}

	params := url.Values{"q": {id.Title}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/shows?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tvmaze API error: %s", resp.Status)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]media.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, media.Candidate{
			Provider:   "tvmaze",
			ExternalID: strconv.FormatInt(r.Show.ID, 10),
			Title:      r.Show.Name,
			Year:       premiereYear(r.Show.Premiered),
			Overview:   r.Show.Summary,
			Popularity: r.Score,
		})
	}
	return candidates, nil
}

func premiereYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
