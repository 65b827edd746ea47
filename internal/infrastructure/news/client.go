// Package news is the upstream news provider client.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
	globalRegion   = "global"
)

// Config holds the upstream endpoint and credentials.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client fetches headlines from a NewsAPI-compatible endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ ports.NewsProvider = (*Client)(nil)

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch returns the upstream JSON body verbatim. Any transport failure,
// non-2xx status or non-JSON body is reported as domain.ErrNewsUnavailable.
func (c *Client) Fetch(ctx context.Context, q ports.NewsQuery) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: provider url not configured", domain.ErrNewsUnavailable)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad provider url: %v", domain.ErrNewsUnavailable, err)
	}
	u.RawQuery = buildQuery(u.Query(), q).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNewsUnavailable, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNewsUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrNewsUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: upstream status %d", domain.ErrNewsUnavailable, resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: upstream returned non-JSON body", domain.ErrNewsUnavailable)
	}
	return body, nil
}

func buildQuery(v url.Values, q ports.NewsQuery) url.Values {
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.Region != "" && !strings.EqualFold(q.Region, globalRegion) {
		v.Set("country", q.Region)
	}
	if len(q.Categories) > 0 {
		v.Set("category", q.Categories[0])
	}
	if len(q.Sources) > 0 {
		v.Set("sources", strings.Join(q.Sources, ","))
	}
	return v
}
