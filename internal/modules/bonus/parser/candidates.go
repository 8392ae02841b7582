package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"

	msgdomain "github.com/mlevasseur/bonus-watcher/internal/modules/message/domain"
)

var (
	httpURL      = regexp.MustCompile(`https?://\S+`)
	bareDomain   = regexp.MustCompile(`(?i)\bplaystake\.club/\S+`)
	bonusRoute   = regexp.MustCompile(`(?i)/bonus(\b|/|\?)`)
	rawToken     = regexp.MustCompile(`\b[a-zA-Z0-9]{10,30}\b`)
	tokenShape   = regexp.MustCompile(`^[a-zA-Z0-9]{10,30}$`)
	urlishPrefix = regexp.MustCompile(`(?i)^https?|^www\.`)
)

// Bonus is the outcome of a successful link or raw-code selection.
type Bonus struct {
	URL  string
	Code string
}

// CollectCandidates enumerates every URL-like or spoiler-revealed candidate
// in a message, in fixed priority order: text_link entity targets, url
// entity slices, spoiler contents, the link preview, inline button URLs row
// by row, then a raw sweep of the body. Earlier entries are preferred for
// selection but all are retained for the fallback raw-code scan.
func CollectCandidates(msg *msgdomain.Message) []string {
	var candidates []string

	for _, ent := range msg.Entities {
		switch ent.Kind {
		case msgdomain.EntityTextLink:
			if ent.URL != "" {
				candidates = append(candidates, ent.URL)
			}
		case msgdomain.EntityURL:
			if s := msg.Slice(ent); s != "" {
				candidates = append(candidates, s)
			}
		case msgdomain.EntitySpoiler:
			hidden := msg.Slice(ent)
			candidates = append(candidates, httpURL.FindAllString(hidden, -1)...)
			candidates = append(candidates, bareDomain.FindAllString(hidden, -1)...)
			if tok := SpoilerToken(hidden); tok != "" {
				candidates = append(candidates, tok)
			}
		}
	}

	if msg.LinkPreviewURL != "" {
		candidates = append(candidates, msg.LinkPreviewURL)
	}
	for _, row := range msg.ButtonURLs {
		for _, u := range row {
			if u != "" {
				candidates = append(candidates, u)
			}
		}
	}

	candidates = append(candidates, httpURL.FindAllString(msg.Text, -1)...)
	candidates = append(candidates, bareDomain.FindAllString(msg.Text, -1)...)
	return candidates
}

// SpoilerToken returns the trimmed spoiler content when it is a plausible
// standalone bonus code: 10-30 alphanumeric characters, no colon, no URL.
func SpoilerToken(hidden string) string {
	t := strings.TrimSpace(hidden)
	if strings.ContainsAny(t, ":/") {
		return ""
	}
	if !tokenShape.MatchString(t) {
		return ""
	}
	return t
}

// FindBonus selects the first candidate that normalizes to a platform bonus
// URL with an extractable code. When no candidate qualifies it falls back to
// the raw-code pass: bare 10-30 character alphanumeric tokens from the body
// and all candidates, accepted when they round-trip through ExtractCode on a
// synthetic bonus URL. Returns nil when nothing qualifies.
func FindBonus(msg *msgdomain.Message) *Bonus {
	candidates := CollectCandidates(msg)

	for _, raw := range candidates {
		n := Normalize(raw)
		u, err := url.Parse(n)
		if err != nil || u.Host == "" {
			continue
		}
		if !IsPlatformHost(u.Hostname()) {
			continue
		}
		if !bonusRoute.MatchString(u.Path + "?" + u.RawQuery) {
			continue
		}
		if code := ExtractCode(n); code != "" {
			return &Bonus{URL: n, Code: code}
		}
	}

	allText := strings.Join(append([]string{msg.Text}, candidates...), " ")
	tokens := lo.Filter(rawToken.FindAllString(allText, -1), func(tok string, _ int) bool {
		return !urlishPrefix.MatchString(tok)
	})
	for _, tok := range tokens {
		// Self-consistency check, not a trust boundary: the token must
		// survive a round trip through the code extractor.
		testURL := "https://" + PlatformDomain + "/bonus?code=" + tok
		if ExtractCode(testURL) == tok {
			return &Bonus{URL: testURL, Code: tok}
		}
	}
	return nil
}
