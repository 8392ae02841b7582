package detect

import (
	"regexp"
	"strings"
)

// Message-shape predicates for the multi-message announcement channels.
// These classify whole messages, unlike the token-level heuristics in the
// parser package.
var (
	announcementRe = regexp.MustCompile(`(?i)DROP\s+INCOMING`)
	comingSoonRe   = regexp.MustCompile(`(?i)COMING\s+IN\s+FEW\s+SECONDS|DROP\s+IS\s+COMING`)
	alphanumRe     = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// IsAnnouncement reports whether the text announces an upcoming drop,
// e.g. "FINAL BONUS DROP INCOMING!".
func IsAnnouncement(text string) bool {
	return announcementRe.MatchString(text)
}

// IsComingSoon reports whether the text is a filler between the
// announcement and the code, e.g. "DROP IS COMING IN FEW SECONDS!".
func IsComingSoon(text string) bool {
	return comingSoonRe.MatchString(text)
}

// IsStandaloneCode reports whether the whole message is a bare redemption
// code: short, purely alphanumeric, no colon and no slash.
func IsStandaloneCode(text string) bool {
	t := strings.TrimSpace(text)
	return t != "" && len(t) < 50 && !strings.ContainsAny(t, ":/") && alphanumRe.MatchString(t)
}
