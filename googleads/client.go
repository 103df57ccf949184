package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const adwordsScope = "https://www.googleapis.com/auth/adwords"

// Client is a low-level Google Ads REST client authorized for one
// customer configuration
type Client struct {
	endpoint   string
	version    string
	cfg        Config
	retry      retryPolicy
	httpClient *http.Client
	logger     zerolog.Logger
}

type retryPolicy struct {
	maxAttempts int
	deadline    time.Duration
}

// NewClient creates a client from a customer configuration. The OAuth
// token source exchanges the refresh token lazily on first use, so no
// network traffic happens here.
func NewClient(cfg Config, opts Options, logger zerolog.Logger) *Client {
	opts = opts.withDefaults()

	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{adwordsScope},
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken, TokenType: "Bearer"}
	httpClient := oauth2.NewClient(context.Background(), oc.TokenSource(context.Background(), token))

	return &Client{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		version:  opts.APIVersion,
		cfg:      cfg,
		retry: retryPolicy{
			maxAttempts: opts.MaxAttempts,
			deadline:    opts.Deadline,
		},
		httpClient: httpClient,
		logger:     logger,
	}
}

// url builds an API URL for the pinned version
func (c *Client) url(path string) string {
	return fmt.Sprintf("%s/%s%s", c.endpoint, c.version, path)
}

// newRequest builds an authorized request with the standard headers
func (c *Client) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("developer-token", c.cfg.DeveloperToken)
	if c.cfg.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", c.cfg.LoginCustomerID)
	}

	return req, nil
}

// do performs a request under the bounded retry policy. Transport
// errors and 429/5xx responses are retried; other API errors are
// returned immediately.
func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.retry.deadline
	policy := backoff.WithMaxRetries(backoff.WithContext(bo, ctx), uint64(c.retry.maxAttempts-1))

	var out []byte
	operation := func() error {
		req, err := c.newRequest(ctx, method, url, body)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug().Err(err).Str("url", url).Msg("Google Ads API request failed, may retry")
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := newAPIError(resp.StatusCode, data)
			if apiErr.Temporary() {
				c.logger.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("Temporary API error, may retry")
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		out = data
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAccessibleCustomers returns the customer ids of all top-level
// accounts directly accessible under the client's refresh token
func (c *Client) ListAccessibleCustomers(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, c.url("/customers:listAccessibleCustomers"), nil)
	if err != nil {
		return nil, err
	}

	var resp listAccessibleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse accessible customers response: %w", err)
	}

	ids := make([]string, 0, len(resp.ResourceNames))
	for _, rn := range resp.ResourceNames {
		ids = append(ids, strings.TrimPrefix(rn, "customers/"))
	}

	c.logger.Debug().Int("count", len(ids)).Msg("Listed accessible customers")
	return ids, nil
}

// Search runs a GAQL query with googleAds:search, following pagination
// until all rows are collected
func (c *Client) Search(ctx context.Context, customerID, query string) ([]map[string]any, error) {
	url := c.url(fmt.Sprintf("/customers/%s/googleAds:search", customerID))

	var results []map[string]any
	pageToken := ""
	for {
		payload, err := json.Marshal(searchRequest{Query: query, PageToken: pageToken})
		if err != nil {
			return nil, fmt.Errorf("failed to encode search request: %w", err)
		}

		body, err := c.do(ctx, http.MethodPost, url, payload)
		if err != nil {
			return nil, err
		}

		var page searchResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse search response: %w", err)
		}

		results = append(results, page.Results...)
		if page.NextPageToken == "" {
			return results, nil
		}
		pageToken = page.NextPageToken
	}
}

// SearchCount returns the total number of rows a query would produce,
// without fetching them
func (c *Client) SearchCount(ctx context.Context, customerID, query string) (int64, error) {
	url := c.url(fmt.Sprintf("/customers/%s/googleAds:search", customerID))

	payload, err := json.Marshal(searchRequest{
		Query:                   query,
		PageSize:                1,
		ReturnTotalResultsCount: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode search request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return 0, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to parse search response: %w", err)
	}

	if resp.TotalResultsCount == "" {
		return 0, nil
	}

	count, err := strconv.ParseInt(resp.TotalResultsCount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected total results count %q: %w", resp.TotalResultsCount, err)
	}
	return count, nil
}

// SearchStream runs a GAQL query with googleAds:searchStream, invoking
// fn once per streamed batch as it arrives. Streaming calls are made in
// a single attempt; the retry policy applies only to paginated searches.
func (c *Client) SearchStream(ctx context.Context, customerID, query string, fn func(results []map[string]any) error) error {
	url := c.url(fmt.Sprintf("/customers/%s/googleAds:searchStream", customerID))

	payload, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search stream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, data)
	}

	// The response is a JSON array of batches; decode it element by
	// element so large result sets never sit in memory whole.
	dec := json.NewDecoder(resp.Body)
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read search stream: %w", err)
	}

	for dec.More() {
		var batch streamBatch
		if err := dec.Decode(&batch); err != nil {
			return fmt.Errorf("failed to decode search stream batch: %w", err)
		}
		if err := fn(batch.Results); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read search stream: %w", err)
	}
	return nil
}
