package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasFavoriteTopics(t *testing.T) {
	assert.False(t, HasFavoriteTopics(nil))
	assert.False(t, HasFavoriteTopics([]string{}))
	assert.False(t, HasFavoriteTopics([]string{"astrology", "gossip"}))
	assert.True(t, HasFavoriteTopics([]string{"technology"}))
	assert.True(t, HasFavoriteTopics([]string{"astrology", " science "}))
}

func TestParseEmailFrequency(t *testing.T) {
	assert.Equal(t, FrequencyDaily, ParseEmailFrequency("daily"))
	assert.Equal(t, FrequencyNever, ParseEmailFrequency("never"))
	assert.Equal(t, FrequencyWeekly, ParseEmailFrequency(""))
	assert.Equal(t, FrequencyWeekly, ParseEmailFrequency("hourly"))
}
