// Package imdbweb scrapes IMDb's public find page as a keyless fallback
// metadata provider. It is deliberately last in the default priority
// order: scraped results carry no popularity signal and the markup can
// drift, so any API-backed provider is preferred.
package imdbweb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/sortarr/internal/media"
)

const defaultBaseURL = "https://www.imdb.com"

// maxResults caps how many scraped rows one search contributes.
const maxResults = 5

// Client scrapes IMDb title search results.
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

// New creates a new IMDb find-page client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies this provider in candidates and configuration.
func (c *Client) Name() string { return "imdb" }

var (
	titleIDRe = regexp.MustCompile(`/title/(tt\d+)`)
	yearRe    = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// Search scrapes /find for titles matching the identity.
func (c *Client) Search(ctx context.Context, id media.Identity) ([]media.Candidate, error) {
	params := url.Values{
		"q": {id.Title},
		"s": {"tt"}, // titles only
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/find/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imdb error: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	var candidates []media.Candidate
	seen := make(map[string]bool)
	doc.Find(`a[href*="/title/tt"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		m := titleIDRe.FindStringSubmatch(href)
		if m == nil || seen[m[1]] {
			return true
		}
		title := strings.TrimSpace(s.Text())
		if title == "" {
			return true
		}
		seen[m[1]] = true

		// The year usually sits in a sibling element next to the link.
		year := 0
		if ym := yearRe.FindString(s.Parent().Text()); ym != "" {
			year, _ = strconv.Atoi(ym)
		}

		candidates = append(candidates, media.Candidate{
			Provider:   "imdb",
			ExternalID: m[1],
			Title:      title,
			Year:       year,
		})
		return len(candidates) < maxResults
	})

	return candidates, nil
}
