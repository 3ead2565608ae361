package xstrconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"on", true},
		{"ON", true},
		{"off", false},
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseBool(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}

	_, err := ParseBool("maybe")
	assert.Error(t, err)
}
