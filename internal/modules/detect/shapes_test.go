package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStandaloneCode(t *testing.T) {
	assert.True(t, IsStandaloneCode("bestchat"))
	assert.True(t, IsStandaloneCode("goodluck12"))
	assert.True(t, IsStandaloneCode("  goodluck12  "))

	assert.False(t, IsStandaloneCode("Value: $100"))
	assert.False(t, IsStandaloneCode("https://x.com"))
	assert.False(t, IsStandaloneCode(""))
	assert.False(t, IsStandaloneCode("two words"))
	assert.False(t, IsStandaloneCode("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), "50 chars is too long")
}

func TestIsAnnouncement(t *testing.T) {
	assert.True(t, IsAnnouncement("FINAL BONUS DROP INCOMING!"))
	assert.True(t, IsAnnouncement("1st NORMAL DROP  INCOMING!"))
	assert.True(t, IsAnnouncement("drop incoming"))
	assert.False(t, IsAnnouncement("the drop happened"))
}

func TestIsComingSoon(t *testing.T) {
	assert.True(t, IsComingSoon("FINAL BONUS DROP IS COMING IN FEW SECONDS!"))
	assert.True(t, IsComingSoon("DROP IS COMING"))
	assert.False(t, IsComingSoon("DROP INCOMING"))
}
