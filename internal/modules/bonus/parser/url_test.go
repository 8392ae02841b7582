package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "canonical URL unchanged",
			in:   "https://playstake.club/bonus?code=abc123",
			want: "https://playstake.club/bonus?code=abc123",
		},
		{
			name: "trailing punctuation stripped",
			in:   "https://playstake.club/bonus?code=abc123).,",
			want: "https://playstake.club/bonus?code=abc123",
		},
		{
			name: "protocol-relative",
			in:   "//playstake.club/bonus?code=abc123",
			want: "https://playstake.club/bonus?code=abc123",
		},
		{
			name: "bare domain",
			in:   "playstake.club/bonus?code=abc123",
			want: "https://playstake.club/bonus?code=abc123",
		},
		{
			name: "instant-view wrapper unwrapped",
			in:   "https://t.me/iv?url=https%3A%2F%2Fplaystake.club%2Fbonus%3Fcode%3Dabc123",
			want: "https://playstake.club/bonus?code=abc123",
		},
		{
			name: "not a URL returned trimmed",
			in:   "  just some words!?",
			want: "just some words",
		},
		{
			name: "surrounding whitespace",
			in:   "  https://playstake.club/bonus?code=abc123  ",
			want: "https://playstake.club/bonus?code=abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestIsPlatformHost(t *testing.T) {
	assert.True(t, IsPlatformHost("playstake.club"))
	assert.True(t, IsPlatformHost("www.playstake.club"))
	assert.True(t, IsPlatformHost("PlayStake.Club"))
	assert.False(t, IsPlatformHost("playstake.club.evil.com"))
	assert.False(t, IsPlatformHost("t.me"))
}
