package parser

import (
	"regexp"
	"strings"

	"github.com/mlevasseur/bonus-watcher/internal/modules/bonus/domain"
)

var (
	conditionLine = regexp.MustCompile(`([A-Za-z\s]+):\s*([^\n]+)`)
	urlish        = regexp.MustCompile(`(?i)^https?:`)
)

// ExtractConditions scans free text for "Label: value" pairs, label being
// letters and spaces only. Pairs whose label or value looks like a URL are
// dropped, as is the reserved label "code" (which would re-capture the bonus
// code itself). Scan order is preserved and duplicate labels are kept.
func ExtractConditions(text string) []domain.Condition {
	var conditions []domain.Condition
	for _, m := range conditionLine.FindAllStringSubmatch(text, -1) {
		label := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if label == "" || value == "" {
			continue
		}
		if urlish.MatchString(value) || urlish.MatchString(label) {
			continue
		}
		if strings.EqualFold(label, "code") {
			continue
		}
		conditions = append(conditions, domain.Condition{Label: label, Value: value})
	}
	return conditions
}
