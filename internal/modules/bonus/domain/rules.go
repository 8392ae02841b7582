package domain

import (
	"regexp"
	"strings"
)

// Rule maps a set of text patterns to a presentation template. Rules are
// evaluated in slice order with first-match-wins semantics: the order is a
// contract, since a pre-monthly announcement also matches the generic
// monthly patterns.
type Rule struct {
	Kind     Kind
	Patterns []*regexp.Regexp
	// Title and Intro may contain the {DATE} and {RANK_MIN} placeholders,
	// resolved at render time only.
	Title string
	Intro string
}

// DefaultRules is the ordered rule table. Specific kinds precede generic
// ones that could also match.
var DefaultRules = []Rule{
	{
		Kind:     KindPostMonthly,
		Patterns: compile(`post[-_ ]?monthly`),
		Title:    "➡️ POST-MONTHLY",
		Intro:    "Profitez d'un bonus EXCEPTIONNEL en étant **{RANK_MIN}** minimum",
	},
	{
		Kind:     KindPreMonthly,
		Patterns: compile(`pre[-_ ]?monthly`),
		Title:    "➡️ PRE-MONTHLY",
		Intro:    "Profitez d'un bonus PRE-MONTHLY spécial",
	},
	{
		Kind:     KindTopPlayers,
		Patterns: compile(`top[-_ ]?vip`, `top[-_ ]?players`),
		Title:    "➡️ TOP PLAYERS",
		Intro:    "🎖️ Bonus réservé aux **Top Players / Top VIPs**",
	},
	{
		Kind:     KindMonthly,
		Patterns: compile(`\bmonthly\b`, `mensuel`, `month`),
		Title:    "➡️ MONTHLY",
		Intro:    "Profitez d'un bonus mensuel en ayant joué pendant le mois",
	},
	{
		Kind:     KindWeekly,
		Patterns: compile(`\bweekly\b`, `hebdo`, `hebdomadaire`, `week`),
		Title:    "➡️ WEEKLY · {DATE}",
		Intro:    "Profitez d'un bonus hebdomadaire en étant **{RANK_MIN}** minimum et en ayant joué cette semaine",
	},
}

// Classify walks the rule list over the case-folded concatenation of message
// text, discovered URL and extracted code, returning the first matching rule.
// The second return is false when no rule matches.
func Classify(rules []Rule, text, url, code string) (Rule, bool) {
	s := strings.ToLower(text + " " + url + " " + code)
	for _, r := range rules {
		for _, p := range r.Patterns {
			if p.MatchString(s) {
				return r, true
			}
		}
	}
	return Rule{Kind: KindUnknown, Title: "Bonus"}, false
}

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)`+p))
	}
	return res
}
