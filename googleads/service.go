package googleads

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mmetrics/adsdata/secrets"
)

// Resources whose result sets can exceed the streamable size and need
// a row-count check before fetching
var checkSizeResources = map[string]bool{
	"ad_group_ad":      true,
	"keyword_view":     true,
	"search_term_view": true,
}

const maxResultSize = 2000000

const campaignResource = "campaign"

var campaignFields = []string{"campaign.id"}

// TokenLookup resolves a customer id to its stored OAuth refresh token.
// Implementations report an unknown customer with an empty token and no
// error.
type TokenLookup interface {
	RefreshToken(ctx context.Context, customerID string) (string, error)
}

// Factory resolves authorization for customer accounts and hands out
// per-customer Service handles. Every call re-derives credentials and
// the login customer id; the optional login cache is the only shared
// state.
type Factory struct {
	tokens TokenLookup
	keys   secrets.Provider
	opts   Options
	logger zerolog.Logger
	login  *loginCache

	// newClient is swapped out in tests
	newClient func(Config, Options, zerolog.Logger) *Client
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLoginCache enables a keyed cache of resolved login customer ids.
// A cached id may be stale for up to ttl after the account hierarchy
// changes.
func WithLoginCache(ttl time.Duration) FactoryOption {
	return func(f *Factory) {
		if ttl > 0 {
			f.login = newLoginCache(ttl)
		}
	}
}

// NewFactory creates a Factory from its collaborators
func NewFactory(tokens TokenLookup, keys secrets.Provider, opts Options, logger zerolog.Logger, factoryOpts ...FactoryOption) *Factory {
	f := &Factory{
		tokens:    tokens,
		keys:      keys,
		opts:      opts.withDefaults(),
		logger:    logger,
		newClient: NewClient,
	}

	for _, opt := range factoryOpts {
		opt(f)
	}

	return f
}

// baseConfig builds a fresh per-call configuration for a refresh token
func (f *Factory) baseConfig(keys secrets.Keys, refreshToken string) Config {
	return Config{
		RefreshToken:   refreshToken,
		ClientID:       keys.ClientID,
		ClientSecret:   keys.ClientSecret,
		DeveloperToken: keys.DeveloperToken,
	}
}

// LoginCustomerID determines which top-level account must authorize API
// calls for the customer: the customer itself when it is directly
// accessible under the refresh token, otherwise the first accessible
// manager account whose enabled client list contains it. Returns
// ErrNoLoginCustomer when no accessible account matches.
func (f *Factory) LoginCustomerID(ctx context.Context, customerID, refreshToken string) (string, error) {
	keys, err := f.keys.Keys(ctx)
	if err != nil {
		return "", err
	}
	return f.resolveLogin(ctx, customerID, refreshToken, keys)
}

// resolveLogin routes through the login cache when enabled
func (f *Factory) resolveLogin(ctx context.Context, customerID, refreshToken string, keys secrets.Keys) (string, error) {
	if f.login != nil {
		return f.login.resolve(customerID, func() (string, error) {
			return f.searchLoginCustomer(ctx, customerID, refreshToken, keys)
		})
	}
	return f.searchLoginCustomer(ctx, customerID, refreshToken, keys)
}

func (f *Factory) searchLoginCustomer(ctx context.Context, customerID, refreshToken string, keys secrets.Keys) (string, error) {
	target, err := strconv.ParseInt(customerID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("customer id %q is not numeric: %w", customerID, err)
	}

	client := f.newClient(f.baseConfig(keys, refreshToken), f.opts, f.logger)

	// Customer ids for all top-level accounts accessible by the
	// refresh token.
	directIDs, err := client.ListAccessibleCustomers(ctx)
	if err != nil {
		return "", err
	}

	// If the customer is a top-level account for this refresh token,
	// assume it is also the login customer.
	for _, id := range directIDs {
		if id == customerID {
			return customerID, nil
		}
	}

	// The customer is a sub-account of the authorizing account; find
	// which of the top-level accounts is the parent. A hierarchy query
	// failing for one candidate must not abort the search.
	for _, parentID := range directIDs {
		results, err := client.Search(ctx, parentID, customerClientQuery)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				f.logger.Debug().
					Str("parent_id", parentID).
					Err(err).
					Msg("Hierarchy query failed for candidate parent, skipping")
				continue
			}
			return "", err
		}

		for _, result := range results {
			id, ok := numericValue(NestedValue("customerClient.id", result))
			if ok && id == target {
				return parentID, nil
			}
		}
	}

	return "", fmt.Errorf("customer %s: %w", customerID, ErrNoLoginCustomer)
}

// numericValue coerces a decoded JSON value to int64. The REST surface
// encodes int64 fields as strings, but plain numbers are handled too.
func numericValue(v any) (int64, bool) {
	switch val := v.(type) {
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		return n, err == nil
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

// Service returns an authenticated service handle for the customer.
// Returns ErrNoRefreshToken when no stored credential exists. A
// login-customer miss is not fatal here: the handle is built without a
// login customer id and the API decides whether calls are permitted.
func (f *Factory) Service(ctx context.Context, customerID string) (*Service, error) {
	refreshToken, err := f.tokens.RefreshToken(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("customer %s: %w", customerID, ErrNoRefreshToken)
	}

	keys, err := f.keys.Keys(ctx)
	if err != nil {
		return nil, err
	}

	loginID, err := f.resolveLogin(ctx, customerID, refreshToken, keys)
	if err != nil && !errors.Is(err, ErrNoLoginCustomer) {
		return nil, err
	}

	cfg := f.baseConfig(keys, refreshToken)
	cfg.LoginCustomerID = loginID

	return &Service{
		client:     f.newClient(cfg, f.opts, f.logger),
		customerID: customerID,
		logger:     f.logger,
	}, nil
}

// AccountTime returns the current time in the customer's timezone
func (f *Factory) AccountTime(ctx context.Context, customerID string) (time.Time, error) {
	svc, err := f.Service(ctx, customerID)
	if err != nil {
		return time.Time{}, err
	}
	return svc.AccountTime(ctx)
}

// AccountDate returns the current date in the customer's timezone
func (f *Factory) AccountDate(ctx context.Context, customerID string) (time.Time, error) {
	svc, err := f.Service(ctx, customerID)
	if err != nil {
		return time.Time{}, err
	}
	return svc.AccountDate(ctx)
}

// BaseQuery builds a basic GAQL query for the customer
func (f *Factory) BaseQuery(ctx context.Context, customerID, fromResource string, fields []string, start, end time.Time, zeroImpressions bool) (string, error) {
	svc, err := f.Service(ctx, customerID)
	if err != nil {
		return "", err
	}
	return svc.BaseQuery(ctx, fromResource, fields, start, end, zeroImpressions)
}

// ExecuteQuery runs a fully formed GAQL query for the customer
func (f *Factory) ExecuteQuery(ctx context.Context, customerID, query string, fields []string) (*Table, error) {
	svc, err := f.Service(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return svc.ExecuteQuery(ctx, query, fields)
}

// Data fetches a table of Google Ads data for the customer
func (f *Factory) Data(ctx context.Context, customerID, fromResource string, fields []string, start, end time.Time, zeroImpressions bool, wheres []string) (*Table, error) {
	svc, err := f.Service(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return svc.Data(ctx, fromResource, fields, start, end, zeroImpressions, wheres)
}

// Service is an authenticated handle bound to one customer account
type Service struct {
	client     *Client
	customerID string
	logger     zerolog.Logger
}

// CustomerID returns the customer the service is bound to
func (s *Service) CustomerID() string {
	return s.customerID
}

// Client exposes the underlying low-level client
func (s *Service) Client() *Client {
	return s.client
}

// AccountTime returns the current time in the account's configured
// timezone. Timezone resolution failures propagate; no default
// timezone is assumed.
func (s *Service) AccountTime(ctx context.Context) (time.Time, error) {
	rows, err := s.client.Search(ctx, s.customerID, timeZoneQuery)
	if err != nil {
		return time.Time{}, err
	}
	if len(rows) == 0 {
		return time.Time{}, fmt.Errorf("timezone lookup for customer %s: %w", s.customerID, ErrEmptyResponse)
	}

	tzName, ok := NestedValue("customer.timeZone", rows[0]).(string)
	if !ok || tzName == "" {
		return time.Time{}, fmt.Errorf("customer %s has no timezone in response", s.customerID)
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to resolve timezone %q: %w", tzName, err)
	}

	return time.Now().In(loc), nil
}

// AccountDate returns the account's current date, truncated from
// AccountTime
func (s *Service) AccountDate(ctx context.Context) (time.Time, error) {
	now, err := s.AccountTime(ctx)
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), nil
}

// BaseQuery makes a basic GAQL query to be used with ExecuteQuery.
// When start or end is the zero time it defaults to the account's
// current date, so omitting both yields a single-day query. Date-time
// values are truncated to dates. Unless zeroImpressions is set, rows
// without impressions are filtered out.
func (s *Service) BaseQuery(ctx context.Context, fromResource string, fields []string, start, end time.Time, zeroImpressions bool) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("at least one field is required")
	}

	start, end, err := s.resolveDates(ctx, start, end)
	if err != nil {
		return "", err
	}

	return buildQuery(fromResource, fields, start, end, zeroImpressions), nil
}

// resolveDates fills zero-valued bounds with the account's current date
func (s *Service) resolveDates(ctx context.Context, start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		today, err := s.AccountDate(ctx)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if start.IsZero() {
			start = today
		}
		if end.IsZero() {
			end = today
		}
	}
	return start, end, nil
}

// ExecuteQuery runs a GAQL query with the streaming call and returns
// the results in a table. fields must list the selected fields in
// snake_case; they become the column labels, and each is converted to
// camelCase to walk the response shape. Rows are collected in arrival
// order, with nil standing in for values missing from a record.
func (s *Service) ExecuteQuery(ctx context.Context, query string, fields []string) (*Table, error) {
	camelFields := make([]string, len(fields))
	for i, f := range fields {
		camelFields[i] = SnakeToCamel(f)
	}

	table := NewTable(fields)
	err := s.client.SearchStream(ctx, s.customerID, query, func(results []map[string]any) error {
		for _, result := range results {
			row := make([]any, len(camelFields))
			for i, f := range camelFields {
				row[i] = NestedValue(f, result)
			}
			table.Append(row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("customer_id", s.customerID).
		Int("rows", table.Len()).
		Msg("Executed query")
	return table, nil
}

// ResultCount returns the number of rows a query would produce,
// fetching only the first selected field with a total count
func (s *Service) ResultCount(ctx context.Context, query string) (int64, error) {
	return s.client.SearchCount(ctx, s.customerID, countQuery(query))
}

// CampaignIDs returns the distinct search-campaign ids active in the
// date range
func (s *Service) CampaignIDs(ctx context.Context, start, end time.Time) ([]string, error) {
	query, err := s.BaseQuery(ctx, campaignResource, campaignFields, start, end, true)
	if err != nil {
		return nil, err
	}
	query = appendWheres(query, []string{"campaign.advertising_channel_type = 'SEARCH'"})

	table, err := s.ExecuteQuery(ctx, query, campaignFields)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for _, v := range table.Column("campaign.id") {
		id := FormatValue(v)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// Data fetches a table of Google Ads data. Extra where predicates are
// appended to the base query with AND. For resources whose result sets
// can exceed the streamable size, the row count is checked first and an
// oversized fetch is split into campaign-id chunks.
func (s *Service) Data(ctx context.Context, fromResource string, fields []string, start, end time.Time, zeroImpressions bool, wheres []string) (*Table, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}

	start, end, err := s.resolveDates(ctx, start, end)
	if err != nil {
		return nil, err
	}

	query := appendWheres(buildQuery(fromResource, fields, start, end, zeroImpressions), wheres)

	if !checkSizeResources[fromResource] {
		return s.ExecuteQuery(ctx, query, fields)
	}

	count, err := s.ResultCount(ctx, query)
	if err != nil {
		return nil, err
	}
	if count <= maxResultSize {
		return s.ExecuteQuery(ctx, query, fields)
	}

	return s.chunkedData(ctx, fromResource, fields, start, end, zeroImpressions, wheres, count)
}

// chunkedData splits an oversized fetch across groups of campaign ids
// and concatenates the partial tables, sequentially
func (s *Service) chunkedData(ctx context.Context, fromResource string, fields []string, start, end time.Time, zeroImpressions bool, wheres []string, count int64) (*Table, error) {
	ids, err := s.CampaignIDs(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		query := appendWheres(buildQuery(fromResource, fields, start, end, zeroImpressions), wheres)
		return s.ExecuteQuery(ctx, query, fields)
	}

	chunks := int(math.Ceil(float64(count) / float64(maxResultSize)))
	step := int(math.Ceil(float64(len(ids)) / float64(chunks)))
	if step < 1 {
		step = 1
	}

	s.logger.Debug().
		Str("customer_id", s.customerID).
		Int64("count", count).
		Int("campaigns", len(ids)).
		Int("step", step).
		Msg("Result set too large, fetching in campaign chunks")

	table := NewTable(fields)
	for i := 0; i < len(ids); i += step {
		last := i + step
		if last > len(ids) {
			last = len(ids)
		}

		quoted := make([]string, 0, last-i)
		for _, id := range ids[i:last] {
			quoted = append(quoted, "'"+id+"'")
		}

		sub := appendWheres(buildQuery(fromResource, fields, start, end, zeroImpressions), wheres)
		sub = appendWheres(sub, []string{fmt.Sprintf("campaign.id IN (%s)", strings.Join(quoted, ", "))})

		part, err := s.ExecuteQuery(ctx, sub, fields)
		if err != nil {
			return nil, err
		}
		if err := table.Concat(part); err != nil {
			return nil, err
		}
	}

	return table, nil
}
