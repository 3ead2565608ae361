package xquery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool(url.Values{"only_my": {"true"}}, "only_my", false))
	assert.True(t, ParseBool(url.Values{"only_my": {"on"}}, "only_my", false))
	assert.False(t, ParseBool(url.Values{}, "only_my", false))
	assert.True(t, ParseBool(url.Values{"only_my": {"bogus"}}, "only_my", true))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 42, ParseInt(url.Values{"club_id": {"42"}}, "club_id", 0))
	assert.Equal(t, 0, ParseInt(url.Values{}, "club_id", 0))
	assert.Equal(t, 7, ParseInt(url.Values{"club_id": {"nope"}}, "club_id", 7))
}

func TestParseString(t *testing.T) {
	assert.Equal(t, "chess", ParseString(url.Values{"search": {"chess"}}, "search", ""))
	assert.Equal(t, "fallback", ParseString(url.Values{}, "search", "fallback"))
}

func TestParseIntSlice(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, ParseIntSlice(url.Values{"ids": {"1, 2,3"}}, "ids", nil))
	assert.Equal(t, []int{4}, ParseIntSlice(url.Values{"ids": {"4,nope"}}, "ids", nil))
	assert.Nil(t, ParseIntSlice(url.Values{}, "ids", nil))
}

func TestParseOrder(t *testing.T) {
	assert.False(t, ParseOrder(url.Values{}), "default is newest first")
	assert.False(t, ParseOrder(url.Values{"order": {"-1"}}))
	assert.True(t, ParseOrder(url.Values{"order": {"1"}}))
}
