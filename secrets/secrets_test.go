package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeys(t *testing.T) {
	doc := `
client_id: abc.apps.googleusercontent.com
client_secret: shhh
developer_token: dev-token
`
	keys, err := ParseKeys([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "abc.apps.googleusercontent.com", keys.ClientID)
	assert.Equal(t, "shhh", keys.ClientSecret)
	assert.Equal(t, "dev-token", keys.DeveloperToken)
}

func TestParseKeysMissingField(t *testing.T) {
	doc := `
client_id: abc.apps.googleusercontent.com
client_secret: shhh
`
	_, err := ParseKeys([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestParseKeysInvalidYAML(t *testing.T) {
	_, err := ParseKeys([]byte("client_id: [unclosed"))
	require.Error(t, err)
}
