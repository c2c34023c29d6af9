package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vmunix/sortarr/internal/media"
)

const defaultBaseURL = "https://api.themoviedb.org"

// maxResults caps how many candidates one search contributes.
const maxResults = 5

// Client is a TMDB search client. It satisfies the metadata provider
// contract: movie identities hit /search/movie, TV identities /search/tv.
type Client struct {
	apiKey     string
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

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
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
func (c *Client) Name() string { return "tmdb" }

// Search queries TMDB for candidates matching the identity.
func (c *Client) Search(ctx context.Context, id media.Identity) ([]media.Candidate, error) {
	if id.Kind == media.KindEpisode || id.Kind == media.KindSeasonGroup {
		return c.searchTV(ctx, id.Title)
	}
	return c.searchMovie(ctx, id.Title, id.Year)
}

func (c *Client) searchMovie(ctx context.Context, title string, year int) ([]media.Candidate, error) {
	params := url.Values{
		"api_key": {c.apiKey},
		"query":   {title},
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var resp movieSearchResponse
	if err := c.get(ctx, "/3/search/movie", params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]media.Candidate, 0, len(resp.Results))
	for i, r := range resp.Results {
		if i == maxResults {
			break
		}
		candidates = append(candidates, media.Candidate{
			Provider:   "tmdb",
			ExternalID: strconv.FormatInt(r.ID, 10),
			Title:      r.Title,
			Year:       yearOf(r.ReleaseDate),
			Overview:   r.Overview,
			Popularity: r.Popularity,
		})
	}
	return candidates, nil
}

func (c *Client) searchTV(ctx context.Context, title string) ([]media.Candidate, error) {
	params := url.Values{
		"api_key": {c.apiKey},
		"query":   {title},
	}

	var resp tvSearchResponse
	if err := c.get(ctx, "/3/search/tv", params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]media.Candidate, 0, len(resp.Results))
	for i, r := range resp.Results {
		if i == maxResults {
			break
		}
		candidates = append(candidates, media.Candidate{
			Provider:   "tmdb",
			ExternalID: strconv.FormatInt(r.ID, 10),
			Title:      r.Name,
			Year:       yearOf(r.FirstAirDate),
			Overview:   r.Overview,
			Popularity: r.Popularity,
		})
	}
	return candidates, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
