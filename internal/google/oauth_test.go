package google

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOAuthConfigRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	_, err := getOAuthConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
}

func TestGetOAuthConfig(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")

	conf, err := getOAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, "client-id", conf.ClientID)
	assert.Equal(t, []string{calendarScope}, conf.Scopes)
}

func TestHasTokenWithoutCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	assert.False(t, HasToken())
}

func TestTokenFileLocation(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	assert.Equal(t, filepath.Join(cache, "calagent", "google.token"), tokenFile())
}
