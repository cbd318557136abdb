package window

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		BridgeURL: "http://127.0.0.1:38421/",
		Token:     "tok123",
		Lang:      "en",
		DeviceID:  "dev-42",
	}
}

func TestBuildPageURLInjectsConnectionParams(t *testing.T) {
	raw, err := BuildPageURL(testParams(), "/ip4/127.0.0.1/tcp/5001", "files")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "/ip4/127.0.0.1/tcp/5001", q.Get("api"))
	assert.Equal(t, "en", q.Get("lang"))
	assert.Equal(t, "dev-42", q.Get("deviceId"))
	assert.Equal(t, "tok123", q.Get("token"))
	assert.Equal(t, "/files", u.Fragment)
}

func TestBuildPageURLOmitsUnknownAPIAddr(t *testing.T) {
	raw, err := BuildPageURL(testParams(), "", "")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.False(t, u.Query().Has("api"))
	assert.Equal(t, "/", u.Fragment)
}

func TestNormalizeRoute(t *testing.T) {
	assert.Equal(t, "/", normalizeRoute(""))
	assert.Equal(t, "/files", normalizeRoute("files"))
	assert.Equal(t, "/files", normalizeRoute("/files"))
	assert.Equal(t, "/", normalizeRoute("  "))
}
