package googleads

import (
	"strings"
	"unicode"
)

// CamelToSnake converts "campaignId" to "campaign_id"
func CamelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SnakeToCamel converts "campaign_id" to "campaignId". Dotted paths
// pass through segment-wise: "customer.time_zone" becomes
// "customer.timeZone".
func SnakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}

// NestedValue walks a dotted path into a decoded JSON object and
// returns the value at the end of the path. A missing or non-object
// segment at any depth yields nil.
func NestedValue(path string, data map[string]any) any {
	var current any = data
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		value, ok := obj[key]
		if !ok {
			return nil
		}
		current = value
	}
	return current
}
