package googleads

import "time"

// Config is the per-customer authorization material for API calls.
// It is built fresh for every call and never shared across customers.
type Config struct {
	RefreshToken    string
	ClientID        string
	ClientSecret    string
	DeveloperToken  string
	LoginCustomerID string
}

// Options holds client settings shared across customers
type Options struct {
	// Endpoint is the API base URL
	Endpoint string
	// APIVersion is the pinned API version, e.g. "v16"
	APIVersion string
	// MaxAttempts bounds the retry policy for search calls
	MaxAttempts int
	// Deadline bounds the total time spent retrying a search call
	Deadline time.Duration
}

// Default client settings
const (
	DefaultEndpoint   = "https://googleads.googleapis.com"
	DefaultAPIVersion = "v16"

	defaultMaxAttempts = 8
	defaultDeadline    = 15 * time.Second
)

// withDefaults fills in zero-valued settings
func (o Options) withDefaults() Options {
	if o.Endpoint == "" {
		o.Endpoint = DefaultEndpoint
	}
	if o.APIVersion == "" {
		o.APIVersion = DefaultAPIVersion
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.Deadline <= 0 {
		o.Deadline = defaultDeadline
	}
	return o
}

// searchRequest is the googleAds:search request body
type searchRequest struct {
	Query                   string `json:"query"`
	PageToken               string `json:"pageToken,omitempty"`
	PageSize                int    `json:"pageSize,omitempty"`
	ReturnTotalResultsCount bool   `json:"returnTotalResultsCount,omitempty"`
}

// searchResponse is one page of a googleAds:search response
type searchResponse struct {
	Results           []map[string]any `json:"results"`
	NextPageToken     string           `json:"nextPageToken"`
	TotalResultsCount string           `json:"totalResultsCount"`
}

// streamBatch is one element of the googleAds:searchStream response array
type streamBatch struct {
	Results []map[string]any `json:"results"`
}

// listAccessibleResponse is the customers:listAccessibleCustomers response
type listAccessibleResponse struct {
	ResourceNames []string `json:"resourceNames"`
}
