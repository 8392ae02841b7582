package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_OrderIsContract(t *testing.T) {
	// A text containing both substrings must classify as the more specific
	// kind, never the generic one.
	rule, ok := Classify(DefaultRules, "big pre-monthly monthly bonus", "", "")
	assert.True(t, ok)
	assert.Equal(t, KindPreMonthly, rule.Kind)

	rule, ok = Classify(DefaultRules, "post-monthly drop", "", "")
	assert.True(t, ok)
	assert.Equal(t, KindPostMonthly, rule.Kind)
}

func TestClassify_Inputs(t *testing.T) {
	tests := []struct {
		name             string
		text, url, code  string
		want             Kind
		wantMatch        bool
	}{
		{"weekly from code", "", "", "BoostWeekly16A25", KindWeekly, true},
		{"monthly from url", "", "https://playstake.club/bonus?code=x&src=monthly", "", KindMonthly, true},
		{"top players", "reserved for top players only", "", "", KindTopPlayers, true},
		{"french weekly", "bonus hebdo dispo", "", "", KindWeekly, true},
		{"nothing", "hello there", "", "abc123", KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := Classify(DefaultRules, tt.text, tt.url, tt.code)
			assert.Equal(t, tt.wantMatch, ok)
			assert.Equal(t, tt.want, rule.Kind)
		})
	}
}

func TestKindCalendar(t *testing.T) {
	assert.True(t, KindWeekly.Calendar())
	assert.True(t, KindMonthly.Calendar())
	assert.True(t, KindPreMonthly.Calendar())
	assert.True(t, KindPostMonthly.Calendar())
	assert.False(t, KindTopPlayers.Calendar())
	assert.False(t, KindUnknown.Calendar())
}

func TestClassify_TemplatesKeepPlaceholders(t *testing.T) {
	rule, ok := Classify(DefaultRules, "weekly", "", "")
	assert.True(t, ok)
	// Substitution happens at render time, not here.
	assert.Contains(t, rule.Title, "{DATE}")
	assert.Contains(t, rule.Intro, "{RANK_MIN}")
}
