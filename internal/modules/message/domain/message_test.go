package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice(t *testing.T) {
	msg := &Message{Text: "go here now"}
	assert.Equal(t, "here", msg.Slice(Entity{Offset: 3, Length: 4}))
}

func TestSlice_UTF16Offsets(t *testing.T) {
	// The emoji occupies two UTF-16 code units, shifting later offsets.
	msg := &Message{Text: "🎁 code abc123xyz789"}
	assert.Equal(t, "abc123xyz789", msg.Slice(Entity{Offset: 8, Length: 12}))
}

func TestSlice_OutOfRange(t *testing.T) {
	msg := &Message{Text: "short"}
	assert.Empty(t, msg.Slice(Entity{Offset: 3, Length: 10}))
	assert.Empty(t, msg.Slice(Entity{Offset: -1, Length: 2}))
}

func TestChannelKey(t *testing.T) {
	assert.Equal(t, "-100123", (&Message{ChannelID: "-100123", ChannelHandle: "x"}).ChannelKey())
	assert.Equal(t, "handle", (&Message{ChannelHandle: "handle"}).ChannelKey())
}

func TestParseEntityKind(t *testing.T) {
	assert.Equal(t, EntityTextLink, ParseEntityKind("text_link"))
	assert.Equal(t, EntityURL, ParseEntityKind("url"))
	assert.Equal(t, EntitySpoiler, ParseEntityKind("spoiler"))
	assert.Equal(t, EntityOther, ParseEntityKind("bold"))
	assert.Equal(t, EntityOther, ParseEntityKind("custom_emoji"))
}
