package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannels(t *testing.T) {
	handles, ids := ParseChannels("@DropsChannel, -1001234567890, t_news, https://t.me/RainsTeam")

	assert.Equal(t, map[string]struct{}{
		"dropschannel": {},
		"t_news":       {},
		"rainsteam":    {},
	}, handles)
	assert.Equal(t, map[string]struct{}{
		"-1001234567890": {},
	}, ids)
}

func TestParseChannels_Empty(t *testing.T) {
	handles, ids := ParseChannels("")
	assert.Empty(t, handles)
	assert.Empty(t, ids)

	handles, ids = ParseChannels(" , ,")
	assert.Empty(t, handles)
	assert.Empty(t, ids)
}

func TestParseChannels_NumericNeedsChannelPrefix(t *testing.T) {
	// Plain numbers are not channel ids; only the -100 form is.
	handles, ids := ParseChannels("12345")
	assert.Empty(t, ids)
	assert.Contains(t, handles, "12345")
}
