// Package parser holds the text and URL heuristics of the detection
// pipeline: URL normalization, code extraction, condition extraction and
// candidate collection. Every function here is best-effort and returns an
// empty result on malformed input, never an error.
package parser

import (
	"net/url"
	"regexp"
	"strings"
)

// PlatformDomain is the canonical host of the bonus platform.
const PlatformDomain = "playstake.club"

var (
	trailingPunct   = regexp.MustCompile(`[)\]}.,;!?]+$`)
	bareDomainStart = regexp.MustCompile(`(?i)^playstake\.club\b`)
)

// Normalize canonicalizes a URL-like string: strips trailing punctuation
// glued to the link, upgrades protocol-relative and bare-domain forms to
// https, and unwraps Telegram's instant-view endpoint (t.me/iv?url=...)
// recursively. A string that does not parse as a URL is returned in its
// partially-normalized form.
func Normalize(raw string) string {
	s := trailingPunct.ReplaceAllString(strings.TrimSpace(raw), "")
	if strings.HasPrefix(s, "//") {
		s = "https:" + s
	}
	if bareDomainStart.MatchString(s) {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	if u.Hostname() == "t.me" && u.Path == "/iv" {
		if inner := u.Query().Get("url"); inner != "" {
			return Normalize(inner)
		}
	}
	return s
}

// IsPlatformHost reports whether the host (minus a leading www.) is the
// bonus platform's canonical domain.
func IsPlatformHost(host string) bool {
	h := strings.ToLower(host)
	h = strings.TrimPrefix(h, "www.")
	return h == PlatformDomain
}
