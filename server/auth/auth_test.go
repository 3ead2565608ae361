package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mani-shailesh/focus/internal/xtime"
)

func testConfig() Config {
	return Config{
		SessionMaxAge: xtime.Duration(time.Hour),
		Facebook: ProviderConfig{
			ClientID:     "fb-id",
			ClientSecret: "fb-secret",
		},
	}
}

func TestNewProviders(t *testing.T) {
	a := New(testConfig(), "https://focus.example.com")

	facebook, ok := a.Provider(ProviderFacebook)
	require.True(t, ok)
	assert.Equal(t, "fb-id", facebook.OAuth2.ClientID)
	assert.Equal(t, "https://focus.example.com/auth/facebook/callback", facebook.OAuth2.RedirectURL)

	_, ok = a.Provider(ProviderTwitter)
	assert.False(t, ok, "unconfigured providers should not be registered")
}

func TestStateLifecycle(t *testing.T) {
	a := New(testConfig(), "https://focus.example.com")

	state, verifier := a.NewState(ProviderFacebook, "/clubs")
	require.NotEmpty(t, state)
	require.NotEmpty(t, verifier)

	provider, redirectURL, gotVerifier, ok := a.GetState(state)
	require.True(t, ok)
	assert.Equal(t, ProviderFacebook, provider)
	assert.Equal(t, "/clubs", redirectURL)
	assert.Equal(t, verifier, gotVerifier)

	_, _, _, ok = a.GetState(state)
	assert.False(t, ok, "states are single use")
}

func TestGetStateUnknown(t *testing.T) {
	a := New(testConfig(), "https://focus.example.com")

	_, _, _, ok := a.GetState("bogus")
	assert.False(t, ok)
}

func TestExpiredState(t *testing.T) {
	a := New(testConfig(), "https://focus.example.com")

	state, _ := a.NewState(ProviderFacebook, "/")
	a.statesMu.Lock()
	lState := a.states[state]
	lState.CreatedAt = time.Now().Add(-MaxLoginFlowDuration - time.Minute)
	a.states[state] = lState
	a.statesMu.Unlock()

	_, _, _, ok := a.GetState(state)
	assert.False(t, ok)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("", "anything"), "social accounts without a password never match")
}
