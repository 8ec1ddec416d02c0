// Package hubspot wraps the HubSpot CRM v3 contacts search API with cursor
// pagination, rate-limit courtesy throttling and bounded retry on 429.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/report-cli/internal/resilience"
)

const (
	defaultBaseURL   = "https://api.hubapi.com"
	searchPath       = "/crm/v3/objects/contacts/search"
	defaultPageLimit = 100

	// Minimum spacing between search requests, applied before every
	// attempt as courtesy toward the shared API quota.
	defaultRequestDelay = 200 * time.Millisecond
)

// defaultProperties is requested when a call site asks for none.
var defaultProperties = []string{PropEmail}

// Client performs contact searches against the HubSpot CRM API.
type Client interface {
	// SearchAll fetches every page matching filters, in cursor order.
	// properties defaults to ["email"] when empty.
	SearchAll(ctx context.Context, filters []Filter, properties []string) ([]Contact, error)

	// Count returns the number of contacts matching filters.
	Count(ctx context.Context, filters []Filter) (int, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithPageLimit overrides the default page size of 100.
func WithPageLimit(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

// WithMaxAttempts overrides the default of 3 attempts per page.
func WithMaxAttempts(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoffStep overrides the 500ms base of the linear 429 backoff.
func WithBackoffStep(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.backoffStep = d
		}
	}
}

// WithRequestDelay overrides the courtesy delay between requests.
// A non-positive value disables throttling.
func WithRequestDelay(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	token       string
	baseURL     string
	http        *http.Client
	limiter     *rate.Limiter
	pageLimit   int
	maxAttempts int
	backoffStep time.Duration
}

// NewClient creates a HubSpot search client authenticated with the given
// private app token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:       token,
		baseURL:     defaultBaseURL,
		pageLimit:   defaultPageLimit,
		maxAttempts: 3,
		backoffStep: 500 * time.Millisecond,
		limiter:     rate.NewLimiter(rate.Every(defaultRequestDelay), 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchAll(ctx context.Context, filters []Filter, properties []string) ([]Contact, error) {
	if len(properties) == 0 {
		properties = defaultProperties
	}

	req := SearchRequest{
		FilterGroups: []FilterGroup{{Filters: filters}},
		Properties:   properties,
		Limit:        c.pageLimit,
	}

	var all []Contact
	for {
		page, err := c.searchPage(ctx, req)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)

		after := page.nextAfter()
		if after == "" {
			break
		}
		req.After = after
	}
	return all, nil
}

func (c *httpClient) Count(ctx context.Context, filters []Filter) (int, error) {
	contacts, err := c.SearchAll(ctx, filters, nil)
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// searchPage fetches one page, retrying on 429 with linear backoff. Any
// other non-200 status is terminal for the call.
func (c *httpClient) searchPage(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: marshal request")
	}

	cfg := resilience.RetryConfig{
		MaxAttempts: c.maxAttempts,
		Backoff:     resilience.LinearBackoff(c.backoffStep),
		OnRetry:     resilience.RetryLogger("hubspot", "search contacts"),
	}

	page, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*SearchResponse, error) {
		return c.doSearch(ctx, body)
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		if resilience.IsTransient(err) {
			return nil, ErrRetryLimit
		}
		return nil, err
	}
	return page, nil
}

func (c *httpClient) doSearch(ctx context.Context, body []byte) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "hubspot: rate limit")
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "hubspot: read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var result SearchResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, eris.Wrap(err, "hubspot: unmarshal response")
		}
		return &result, nil
	case http.StatusTooManyRequests:
		return nil, resilience.NewTransientError(
			eris.Errorf("hubspot: rate limited: %s", string(respBody)), resp.StatusCode)
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
}
