// Package googleads provides utilities for making Google Ads API
// queries on behalf of stored customer accounts.
//
// To make a Google Ads API query, we need the account's OAuth refresh
// token and the shared API keys. With those we can derive the
// authorizing account's customer id and get a service handle with which
// to run GAQL queries.
//
// # Architecture
//
//   - Client: low-level authorized REST client with a bounded retry
//     policy per call
//   - Factory: resolves credentials and the login customer id, and
//     hands out per-customer Service values
//   - Service: a customer-bound handle exposing the query operations
//     (BaseQuery, ExecuteQuery, Data, AccountTime, ...)
//   - Table: positional result rows flattened from the streamed
//     response, one column per requested field
//
// # Usage
//
//	factory := googleads.NewFactory(store, keys, googleads.Options{}, logger)
//
//	table, err := factory.Data(ctx, "1234567890", "campaign",
//		[]string{"campaign.id", "campaign.name", "metrics.impressions"},
//		start, end, false, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Field names use snake_case with dot-separated nesting, exactly as
// written in GAQL; they are converted internally to the camelCase form
// used by the JSON response shape.
//
// # Error handling
//
// A missing refresh token or login customer is reported with the
// ErrNoRefreshToken and ErrNoLoginCustomer sentinels; check them with
// errors.Is before treating a failure as fatal. Upstream service
// failures propagate as *APIError or transport errors without
// translation.
//
// Query strings are assembled by plain interpolation: resource names,
// fields, and extra where clauses are trusted as supplied by the
// caller.
package googleads
