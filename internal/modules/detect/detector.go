// Package detect is the per-message decision procedure: an ordered list of
// detection states evaluated first-match-wins over each incoming message.
// The state order is a contract; see the states slice in NewDetector.
package detect

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mlevasseur/bonus-watcher/internal/modules/bonus/domain"
	"github.com/mlevasseur/bonus-watcher/internal/modules/bonus/parser"
	bonusrepo "github.com/mlevasseur/bonus-watcher/internal/modules/bonus/repository"
	"github.com/mlevasseur/bonus-watcher/internal/modules/correlation"
	"github.com/mlevasseur/bonus-watcher/internal/modules/media"
	msgdomain "github.com/mlevasseur/bonus-watcher/internal/modules/message/domain"
	"github.com/mlevasseur/bonus-watcher/internal/modules/publish"
	seenrepo "github.com/mlevasseur/bonus-watcher/internal/modules/seen/repository"
)

// MediaFetcher downloads the bytes of an attached media file.
type MediaFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}

// Options carries the detector's static configuration.
type Options struct {
	// AllowedHandles and AllowedIDs form the channel allow-list. Both empty
	// means watch every channel.
	AllowedHandles map[string]struct{}
	AllowedIDs     map[string]struct{}
	Rules          []domain.Rule
}

// Detector sequences the pipeline components into a publish-or-ignore
// decision per message.
type Detector struct {
	opts     Options
	cache    *correlation.Cache
	seen     seenrepo.Repository
	builder  *publish.Builder
	pub      publish.Publisher
	recovery *media.Recovery
	fetcher  MediaFetcher
	history  bonusrepo.Repository
	logger   *slog.Logger

	states []state
}

// outcome tells the state loop whether to keep evaluating.
type outcome int

const (
	next outcome = iota // state did not match, try the following one
	done                // message fully handled (published or discarded)
)

type state struct {
	name string
	run  func(ctx context.Context, msg *msgdomain.Message) (outcome, error)
}

// NewDetector wires the detection state machine. Any of recovery/fetcher may
// be nil, which disables the media fallback state.
func NewDetector(opts Options, cache *correlation.Cache, seen seenrepo.Repository,
	builder *publish.Builder, pub publish.Publisher, recovery *media.Recovery,
	fetcher MediaFetcher, history bonusrepo.Repository) *Detector {

	if len(opts.Rules) == 0 {
		opts.Rules = domain.DefaultRules
	}
	d := &Detector{
		opts:     opts,
		cache:    cache,
		seen:     seen,
		builder:  builder,
		pub:      pub,
		recovery: recovery,
		fetcher:  fetcher,
		history:  history,
		logger:   slog.Default(),
	}
	// Evaluation order is part of the contract: first match wins and no
	// further state runs for the message.
	d.states = []state{
		{"channel-filter", d.stateChannelFilter},
		{"announcement", d.stateAnnouncement},
		{"coming-soon", d.stateComingSoon},
		{"bare-code", d.stateBareCode},
		{"direct-link", d.stateDirectLink},
		{"spoiler-code", d.stateSpoilerCode},
		{"media-fallback", d.stateMediaFallback},
	}
	return d
}

// SetLogger sets the logger.
func (d *Detector) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

// Process runs one message through the state list. External-capability
// failures are logged and abort only this message; the returned error
// mirrors what was logged so callers can count failures.
func (d *Detector) Process(ctx context.Context, msg *msgdomain.Message) error {
	d.cache.ExpireAll()

	for _, st := range d.states {
		out, err := st.run(ctx, msg)
		if err != nil {
			d.logger.Error("message processing aborted",
				"state", st.name, "channel", msg.ChannelKey(), "message_id", msg.ID, "error", err)
			return err
		}
		if out == done {
			return nil
		}
	}

	d.logger.Debug("message ignored, no bonus detected",
		"channel", msg.ChannelKey(), "message_id", msg.ID)
	return nil
}

func (d *Detector) stateChannelFilter(_ context.Context, msg *msgdomain.Message) (outcome, error) {
	if len(d.opts.AllowedHandles) == 0 && len(d.opts.AllowedIDs) == 0 {
		return next, nil
	}
	if _, ok := d.opts.AllowedIDs[msg.ChannelID]; ok {
		return next, nil
	}
	if _, ok := d.opts.AllowedHandles[strings.ToLower(msg.ChannelHandle)]; ok {
		return next, nil
	}
	return done, nil
}

func (d *Detector) stateAnnouncement(_ context.Context, msg *msgdomain.Message) (outcome, error) {
	if !IsAnnouncement(msg.Text) {
		return next, nil
	}
	if conditions := parser.ExtractConditions(msg.Text); len(conditions) > 0 {
		d.cache.Store(msg.ChannelKey(), conditions)
		d.logger.Info("announcement cached",
			"channel", msg.ChannelKey(), "conditions", len(conditions))
	}
	// The code comes in a later message; nothing to publish yet.
	return done, nil
}

func (d *Detector) stateComingSoon(_ context.Context, msg *msgdomain.Message) (outcome, error) {
	if !IsComingSoon(msg.Text) {
		return next, nil
	}
	return done, nil
}

func (d *Detector) stateBareCode(ctx context.Context, msg *msgdomain.Message) (outcome, error) {
	if !IsStandaloneCode(msg.Text) {
		return next, nil
	}
	conditions, ok := d.cache.TryConsume(msg.ChannelKey())
	if !ok {
		// A bare code with no pending announcement is discarded here: letting
		// it fall through would hand it to the raw-code recovery pass, which
		// accepts any round-tripping token.
		d.logger.Debug("bare code without pending conditions",
			"channel", msg.ChannelKey(), "message_id", msg.ID)
		return done, nil
	}

	code := strings.TrimSpace(msg.Text)
	url, _ := publish.RedemptionLinks(code, domain.KindUnknown)
	rec := d.newRecord(msg, code, url, conditions)
	return d.publishRecord(ctx, msg, rec)
}

func (d *Detector) stateDirectLink(ctx context.Context, msg *msgdomain.Message) (outcome, error) {
	bonus := parser.FindBonus(msg)
	if bonus == nil {
		return next, nil
	}
	rec := d.newRecord(msg, bonus.Code, bonus.URL, parser.ExtractConditions(msg.Text))
	return d.publishRecord(ctx, msg, rec)
}

func (d *Detector) stateSpoilerCode(ctx context.Context, msg *msgdomain.Message) (outcome, error) {
	var code string
	for _, ent := range msg.Entities {
		if ent.Kind != msgdomain.EntitySpoiler {
			continue
		}
		if tok := parser.SpoilerToken(msg.Slice(ent)); tok != "" {
			code = tok
			break
		}
	}
	if code == "" {
		return next, nil
	}

	url, _ := publish.RedemptionLinks(code, domain.KindUnknown)
	rec := d.newRecord(msg, code, url, parser.ExtractConditions(msg.Text))
	return d.publishRecord(ctx, msg, rec)
}

func (d *Detector) stateMediaFallback(ctx context.Context, msg *msgdomain.Message) (outcome, error) {
	if msg.Media == nil || d.recovery == nil || d.fetcher == nil {
		return next, nil
	}

	data, err := d.fetcher.Fetch(ctx, msg.Media.FileID)
	if err != nil {
		return done, err
	}
	code, err := d.recovery.TryRecover(ctx, msg.ID, msg.Media, data)
	if err != nil {
		return done, err
	}
	if code == "" {
		return next, nil
	}

	url, _ := publish.RedemptionLinks(code, domain.KindUnknown)
	rec := d.newRecord(msg, code, url, parser.ExtractConditions(msg.Text))
	return d.publishRecord(ctx, msg, rec)
}

// newRecord classifies and assembles a Record from a detected code.
func (d *Detector) newRecord(msg *msgdomain.Message, code, url string, conditions []domain.Condition) *domain.Record {
	rule, _ := domain.Classify(d.opts.Rules, msg.Text, url, code)
	return &domain.Record{
		Code:       code,
		Kind:       rule.Kind,
		URL:        url,
		Title:      rule.Title,
		Intro:      rule.Intro,
		Conditions: conditions,
		ChannelID:  msg.ChannelKey(),
		MessageID:  msg.ID,
		DetectedAt: time.Now(),
	}
}

// publishRecord runs the shared publish tail: dedup admission, payload
// rendering, delivery and history. The dedup key deliberately excludes the
// event kind so an edit of a published message does not republish.
func (d *Detector) publishRecord(ctx context.Context, msg *msgdomain.Message, rec *domain.Record) (outcome, error) {
	key := DedupKey(msg)
	alreadySeen, err := d.seen.Admit(ctx, key)
	if err != nil {
		return done, err
	}
	if alreadySeen {
		d.logger.Debug("duplicate delivery skipped", "key", key)
		return done, nil
	}

	payload := d.builder.Build(rec)
	if err := d.pub.Publish(ctx, payload); err != nil {
		return done, err
	}

	if d.history != nil {
		if err := d.history.SaveRecord(rec); err != nil {
			// History is best-effort; the announcement already went out.
			d.logger.Error("failed to save record history", "key", key, "error", err)
		}
	}

	d.logger.Info("bonus published",
		"kind", rec.Kind, "code", rec.Code, "channel", rec.ChannelID, "message_id", rec.MessageID)
	return done, nil
}

// DedupKey derives the at-most-once publication key for a message.
func DedupKey(msg *msgdomain.Message) string {
	ch := msg.ChannelKey()
	if ch == "" {
		ch = "x"
	}
	return fmt.Sprintf("tg:%s:%d", ch, msg.ID)
}
