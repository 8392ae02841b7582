// Package publish turns a detected bonus record into the outbound
// announcement: template rendering, redemption link construction and
// delivery to Discord.
package publish

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goodsign/monday"

	"github.com/mlevasseur/bonus-watcher/internal/modules/bonus/domain"
	"github.com/mlevasseur/bonus-watcher/internal/modules/bonus/parser"
)

// Payload is the rendered announcement handed to the publisher.
type Payload struct {
	Title            string
	Description      string
	PrimaryLinkURL   string
	SecondaryLinkURL string
	ImageURL         string
}

// Publisher delivers a payload to the fixed output channel. Delivery
// failures are reported to the caller and never retried here.
type Publisher interface {
	Publish(ctx context.Context, payload Payload) error
}

// MirrorDomain is the alternate platform domain offered as a second
// redemption button.
const MirrorDomain = "playstake.bet"

// Builder renders records into payloads.
type Builder struct {
	rankMin  string
	imageURL string
	now      func() time.Time
}

// NewBuilder creates a Builder. rankMin fills the {RANK_MIN} placeholder.
func NewBuilder(rankMin, imageURL string) *Builder {
	if rankMin == "" {
		rankMin = "Bronze"
	}
	return &Builder{rankMin: rankMin, imageURL: imageURL, now: time.Now}
}

// Build renders the record's templates and redemption links.
func (b *Builder) Build(rec *domain.Record) Payload {
	title := rec.Title
	if title == "" {
		title = "🎁 Bonus"
	}
	title = b.render(title)

	var lines []string
	if intro := b.render(rec.Intro); intro != "" {
		lines = append(lines, intro)
	}
	if len(rec.Conditions) > 0 {
		var conds []string
		for _, c := range rec.Conditions {
			conds = append(conds, fmt.Sprintf("**%s:** %s", c.Label, c.Value))
		}
		lines = append(lines, strings.Join(conds, "\n"))
	}

	primary, secondary := RedemptionLinks(rec.Code, rec.Kind)
	return Payload{
		Title:            title,
		Description:      strings.Join(lines, "\n\n"),
		PrimaryLinkURL:   primary,
		SecondaryLinkURL: secondary,
		ImageURL:         b.imageURL,
	}
}

// RedemptionLinks builds the pair of redemption URLs for a code. Calendar
// kinds use the simplified ?bonus= form on the platform root; drop-style
// codes use the settings-modal form.
func RedemptionLinks(code string, kind domain.Kind) (primary, secondary string) {
	esc := url.QueryEscape(code)
	if kind.Calendar() {
		return "https://" + parser.PlatformDomain + "?bonus=" + esc,
			"https://" + MirrorDomain + "?bonus=" + esc
	}
	suffix := "/settings/offers?type=drop&code=" + esc + "&currency=usdc&modal=redeemBonus"
	return "https://" + parser.PlatformDomain + suffix, "https://" + MirrorDomain + suffix
}

func (b *Builder) render(tpl string) string {
	s := strings.ReplaceAll(tpl, "{RANK_MIN}", b.rankMin)
	return strings.ReplaceAll(s, "{DATE}", frenchDate(b.now()))
}

// frenchDate formats t as an uppercase French long date in Europe/Paris,
// e.g. "LUNDI 31 AOÛT 2026".
func frenchDate(t time.Time) string {
	if loc, err := time.LoadLocation("Europe/Paris"); err == nil {
		t = t.In(loc)
	}
	return strings.ToUpper(monday.Format(t, "Monday 02 January 2006", monday.LocaleFrFR))
}
