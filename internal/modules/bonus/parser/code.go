package parser

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,128}$`)
	codeParam   = regexp.MustCompile(`(?i)(?:^|[?#&])code=([A-Za-z0-9_-]{3,128})`)
)

// ExtractCode pulls a bonus code out of a string assumed already passed
// through Normalize. Lookup order, first hit wins: the code query parameter
// (case-insensitive key), a code= key inside the fragment, then a raw regex
// scan when the string is not a well-formed URL. The URL-based paths only
// apply to the platform's own host. Returns "" when no code is found.
func ExtractCode(raw string) string {
	s := Normalize(raw)

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		if m := codeParam.FindStringSubmatch(s); m != nil {
			return unescape(m[1])
		}
		return ""
	}

	if !IsPlatformHost(u.Hostname()) {
		return ""
	}

	for key, vals := range u.Query() {
		if !strings.EqualFold(key, "code") {
			continue
		}
		for _, v := range vals {
			if codePattern.MatchString(v) {
				return v
			}
		}
	}

	if u.Fragment != "" {
		if m := codeParam.FindStringSubmatch(u.Fragment); m != nil {
			return unescape(m[1])
		}
	}

	if m := codeParam.FindStringSubmatch(s); m != nil {
		return unescape(m[1])
	}
	return ""
}

func unescape(s string) string {
	if dec, err := url.QueryUnescape(s); err == nil {
		return dec
	}
	return s
}
