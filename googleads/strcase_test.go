package googleads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelToSnake(t *testing.T) {
	cases := map[string]string{
		"campaignId":        "campaign_id",
		"timeZone":          "time_zone",
		"impressions":       "impressions",
		"adGroupAdRotation": "ad_group_ad_rotation",
		"":                  "",
	}

	for input, want := range cases {
		assert.Equal(t, want, CamelToSnake(input), "CamelToSnake(%q)", input)
	}
}

func TestSnakeToCamel(t *testing.T) {
	cases := map[string]string{
		"campaign_id":                        "campaignId",
		"metrics.impressions":                "metrics.impressions",
		"customer.time_zone":                 "customer.timeZone",
		"ad_group_ad.ad.type":                "adGroupAd.ad.type",
		"campaign.advertising_channel_type":  "campaign.advertisingChannelType",
		"ad_group_ad_asset_view.field_type":  "adGroupAdAssetView.fieldType",
		"customer_client.client_customer":    "customerClient.clientCustomer",
		"segments.date":                      "segments.date",
	}

	for input, want := range cases {
		assert.Equal(t, want, SnakeToCamel(input), "SnakeToCamel(%q)", input)
	}
}

// Simple identifiers without consecutive uppercase letters survive a
// snake round trip unchanged.
func TestSnakeCamelRoundTrip(t *testing.T) {
	for _, s := range []string{"campaignId", "timeZone", "impressions", "adGroupAdRotation"} {
		assert.Equal(t, s, SnakeToCamel(CamelToSnake(s)), "round trip of %q", s)
	}
}

func TestNestedValue(t *testing.T) {
	data := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": float64(5),
			},
		},
	}

	assert.Equal(t, float64(5), NestedValue("a.b.c", data))
	assert.Nil(t, NestedValue("a.x.c", map[string]any{"a": map[string]any{"b": map[string]any{}}}))
	assert.Nil(t, NestedValue("a.b.c.d", data), "walking through a leaf yields nil")
	assert.Nil(t, NestedValue("z", data))
	assert.Equal(t, map[string]any{"c": float64(5)}, NestedValue("a.b", data))
}
