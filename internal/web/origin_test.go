package web

import (
	"testing"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIOriginNilAddr(t *testing.T) {
	assert.Equal(t, NullOrigin, APIOrigin(nil))
}

func TestAPIOriginFromMultiaddr(t *testing.T) {
	addr, err := ma.NewMultiaddr("/ip4/127.0.0.1/tcp/5001")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5001", APIOrigin(addr))
}

func TestAPIOriginUndialableAddr(t *testing.T) {
	// A multiaddr with no network mapping falls back to "null".
	addr, err := ma.NewMultiaddr("/dns4/example.com")
	require.NoError(t, err)
	assert.Equal(t, NullOrigin, APIOrigin(addr))
}
