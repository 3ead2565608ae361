package xtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("30m")))
	assert.Equal(t, Duration(30*time.Minute), d)

	assert.Error(t, d.UnmarshalText([]byte("bogus")))
}

func TestDurationMarshalText(t *testing.T) {
	data, err := Duration(time.Hour).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1h0m0s", string(data))
}
