package googleads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient builds a client against a test server, bypassing the OAuth
// transport.
func testClient(server *httptest.Server) *Client {
	return &Client{
		endpoint:   server.URL,
		version:    "v16",
		cfg:        Config{DeveloperToken: "dev-token"},
		retry:      retryPolicy{maxAttempts: 3, deadline: 5 * time.Second},
		httpClient: server.Client(),
		logger:     zerolog.Nop(),
	}
}

func TestListAccessibleCustomers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v16/customers:listAccessibleCustomers", r.URL.Path)
		assert.Equal(t, "dev-token", r.Header.Get("developer-token"))
		assert.Empty(t, r.Header.Get("login-customer-id"))

		json.NewEncoder(w).Encode(map[string]any{
			"resourceNames": []string{"customers/1234567890", "customers/9876543210"},
		})
	}))
	defer server.Close()

	ids, err := testClient(server).ListAccessibleCustomers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890", "9876543210"}, ids)
}

func TestLoginCustomerIDHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1112223334", r.Header.Get("login-customer-id"))
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer server.Close()

	client := testClient(server)
	client.cfg.LoginCustomerID = "1112223334"

	_, err := client.Search(context.Background(), "7015", "SELECT campaign.id FROM campaign")
	require.NoError(t, err)
}

func TestSearchPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch req.PageToken {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"results":       []map[string]any{{"campaign": map[string]any{"id": "1"}}},
				"nextPageToken": "page-2",
			})
		case "page-2":
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{"campaign": map[string]any{"id": "2"}}},
			})
		default:
			t.Fatalf("unexpected page token %q", req.PageToken)
		}
	}))
	defer server.Close()

	results, err := testClient(server).Search(context.Background(), "7015", "SELECT campaign.id FROM campaign")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", NestedValue("campaign.id", results[0]))
	assert.Equal(t, "2", NestedValue("campaign.id", results[1]))
}

func TestSearchRetriesTemporaryErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":500,"message":"backend error","status":"INTERNAL"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer server.Close()

	_, err := testClient(server).Search(context.Background(), "7015", "SELECT campaign.id FROM campaign")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestSearchPermanentErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid query","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	_, err := testClient(server).Search(context.Background(), "7015", "garbage")
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid query", apiErr.Message)
	assert.False(t, apiErr.Temporary())
}

func TestSearchCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.ReturnTotalResultsCount)
		assert.Equal(t, 1, req.PageSize)

		json.NewEncoder(w).Encode(map[string]any{
			"results":           []map[string]any{{"campaign": map[string]any{"id": "1"}}},
			"totalResultsCount": "3000000",
		})
	}))
	defer server.Close()

	count, err := testClient(server).SearchCount(context.Background(), "7015", "SELECT campaign.id FROM keyword_view")
	require.NoError(t, err)
	assert.Equal(t, int64(3000000), count)
}

func TestSearchStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v16/customers/7015/googleAds:searchStream", r.URL.Path)
		w.Write([]byte(`[
			{"results":[{"campaign":{"id":"1"}},{"campaign":{"id":"2"}}]},
			{"results":[{"campaign":{"id":"3"}}]}
		]`))
	}))
	defer server.Close()

	var batches [][]map[string]any
	err := testClient(server).SearchStream(context.Background(), "7015", "SELECT campaign.id FROM campaign", func(results []map[string]any) error {
		batches = append(batches, results)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)
	assert.Equal(t, "3", NestedValue("campaign.id", batches[1][0]))
}

func TestSearchStreamSingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`[{"error":{"code":500,"message":"backend error","status":"INTERNAL"}}]`))
	}))
	defer server.Close()

	err := testClient(server).SearchStream(context.Background(), "7015", "SELECT campaign.id FROM campaign", func([]map[string]any) error {
		t.Fatal("callback must not run on error")
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestSearchStreamCallbackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"results":[{"campaign":{"id":"1"}}]},{"results":[{"campaign":{"id":"2"}}]}]`))
	}))
	defer server.Close()

	sentinel := errors.New("stop")
	calls := 0
	err := testClient(server).SearchStream(context.Background(), "7015", "SELECT campaign.id FROM campaign", func([]map[string]any) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}
