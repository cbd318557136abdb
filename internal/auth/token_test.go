package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret, err := NewSecret()
	require.NoError(t, err)

	token, err := NewSessionToken(secret, "dev-42", time.Hour)
	require.NoError(t, err)

	deviceID, err := VerifySessionToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "dev-42", deviceID)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	secret, err := NewSecret()
	require.NoError(t, err)
	other, err := NewSecret()
	require.NoError(t, err)

	token, err := NewSessionToken(secret, "dev-42", time.Hour)
	require.NoError(t, err)

	_, err = VerifySessionToken(other, token)
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	secret, err := NewSecret()
	require.NoError(t, err)

	token, err := NewSessionToken(secret, "dev-42", -time.Minute)
	require.NoError(t, err)

	_, err = VerifySessionToken(secret, token)
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	secret, err := NewSecret()
	require.NoError(t, err)

	_, err = VerifySessionToken(secret, "not-a-token")
	assert.Error(t, err)
}
