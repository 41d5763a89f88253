// Package tavily is a rate-limited client for the Tavily web search API.
package tavily

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

var (
	ErrMissingKey = errors.New("TAVILY_API_KEY is not configured")
	ErrSearch     = errors.New("search request failed")
)

// Result is one search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// Client issues search queries against Tavily.
type Client struct {
	httpc      *resty.Client
	limiter    *rate.Limiter
	apiKey     string
	maxResults int
}

// New builds a client for cfg. It fails when no API key is configured.
func New(cfg Config) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrMissingKey
	}

	httpc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.TimeoutDuration()).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpc:      httpc,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
	}, nil
}

// Search runs query and returns the hits in the order Tavily ranked them.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}

	var out searchResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(searchRequest{
			APIKey:      c.apiKey,
			Query:       query,
			MaxResults:  c.maxResults,
			SearchDepth: "basic",
		}).
		SetResult(&out).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrSearch, resp.StatusCode())
	}

	return out.Results, nil
}
