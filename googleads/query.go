package googleads

import (
	"fmt"
	"strings"
	"time"
)

// customerClientQuery lists the enabled client accounts under a manager
const customerClientQuery = `SELECT customer_client.status, customer_client.client_customer, customer_client.manager, customer_client.id FROM customer_client WHERE customer_client.status='ENABLED'`

// timeZoneQuery fetches the account's configured timezone
const timeZoneQuery = "SELECT customer.time_zone FROM customer"

const dateLayout = "2006-01-02"

// buildQuery assembles a GAQL query from its parts. Dates must already
// be resolved; they are truncated to days. Field and resource strings
// are interpolated as-is.
func buildQuery(fromResource string, fields []string, start, end time.Time, zeroImpressions bool) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString(" FROM ")
	b.WriteString(fromResource)

	wheres := make([]string, 0, 3)
	if !zeroImpressions {
		wheres = append(wheres, "metrics.impressions > 0")
	}
	wheres = append(wheres, fmt.Sprintf("segments.date >= '%s'", start.Format(dateLayout)))
	wheres = append(wheres, fmt.Sprintf("segments.date <= '%s'", end.Format(dateLayout)))

	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(wheres, " AND "))
	return b.String()
}

// appendWheres appends extra predicates to a query that already has a
// WHERE clause
func appendWheres(query string, wheres []string) string {
	if len(wheres) == 0 {
		return query
	}
	return query + " AND " + strings.Join(wheres, " AND ")
}

// countQuery reduces a query to its first selected field, preserving
// the FROM and WHERE parts, so a row count can be fetched cheaply
func countQuery(query string) string {
	parts := strings.SplitN(query, " FROM ", 2)
	if len(parts) != 2 {
		return query
	}
	firstField := strings.SplitN(parts[0], ", ", 2)[0]
	return firstField + " FROM " + parts[1]
}
