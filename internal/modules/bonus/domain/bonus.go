package domain

import "time"

// Condition is a single "Label: value" constraint displayed alongside a
// bonus code. Discovery order is preserved and duplicate labels are kept.
type Condition struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Kind classifies a bonus by its cadence or origin.
type Kind string

const (
	KindPostMonthly Kind = "post-monthly"
	KindPreMonthly  Kind = "pre-monthly"
	KindTopPlayers  Kind = "top-players"
	KindMonthly     Kind = "monthly"
	KindWeekly      Kind = "weekly"
	KindUnknown     Kind = "unknown"
)

// Calendar reports whether the kind is a calendar-cadence bonus. These use
// the simplified redemption link form instead of the settings-modal one.
func (k Kind) Calendar() bool {
	switch k {
	case KindWeekly, KindMonthly, KindPreMonthly, KindPostMonthly:
		return true
	}
	return false
}

// Record is the pipeline's output: one detected bonus ready for publishing.
// Constructed once per classified message (or completed correlation), handed
// to the publisher, then only retained as history.
type Record struct {
	Code        string      `json:"code"`
	Kind        Kind        `json:"kind"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Intro       string      `json:"intro"`
	Conditions  []Condition `json:"conditions"`
	ChannelID   string      `json:"channel_id"`
	MessageID   int64       `json:"message_id"`
	DetectedAt  time.Time   `json:"detected_at"`
}
