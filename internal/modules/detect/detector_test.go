package detect

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevasseur/bonus-watcher/internal/modules/correlation"
	"github.com/mlevasseur/bonus-watcher/internal/modules/media"
	msgdomain "github.com/mlevasseur/bonus-watcher/internal/modules/message/domain"
	"github.com/mlevasseur/bonus-watcher/internal/modules/publish"
)

// fakeSeen is an in-memory admit-once store.
type fakeSeen struct {
	mu   sync.Mutex
	keys map[string]struct{}
	err  error
}

func newFakeSeen() *fakeSeen {
	return &fakeSeen{keys: make(map[string]struct{})}
}

func (f *fakeSeen) Admit(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.keys[key]; ok {
		return true, nil
	}
	f.keys[key] = struct{}{}
	return false, nil
}

func (f *fakeSeen) Close() error { return nil }

// fakePublisher records payloads.
type fakePublisher struct {
	mu       sync.Mutex
	payloads []publish.Payload
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, p publish.Payload) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

// fakeRecognizer returns fixed text for any media.
type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) RecognizeImage(context.Context, []byte) (media.Result, error) {
	return media.Result{Text: f.text, Confidence: 90}, f.err
}

func (f *fakeRecognizer) RecognizeVideo(context.Context, []byte, string) (media.VideoResult, error) {
	return media.VideoResult{Result: media.Result{Text: f.text, Confidence: 90}, FramesExamined: 3}, f.err
}

type fakeFetcher struct{}

func (fakeFetcher) Fetch(context.Context, string) ([]byte, error) { return []byte{0x1}, nil }

type harness struct {
	detector *Detector
	seen     *fakeSeen
	pub      *fakePublisher
	cache    *correlation.Cache
}

func newHarness(opts Options, recognizer media.Recognizer) *harness {
	seen := newFakeSeen()
	pub := &fakePublisher{}
	cache := correlation.New(5 * time.Minute)

	var recovery *media.Recovery
	var fetcher MediaFetcher
	if recognizer != nil {
		recovery = media.NewRecovery(recognizer)
		fetcher = fakeFetcher{}
	}

	builder := publish.NewBuilder("Bronze", "")
	return &harness{
		detector: NewDetector(opts, cache, seen, builder, pub, recovery, fetcher, nil),
		seen:     seen,
		pub:      pub,
		cache:    cache,
	}
}

func channelMsg(id int64, text string) *msgdomain.Message {
	return &msgdomain.Message{
		ID:        id,
		ChannelID: "-1001234",
		Text:      text,
		Event:     msgdomain.EventNew,
	}
}

func TestDetector_DirectLinkPublishesOnce(t *testing.T) {
	h := newHarness(Options{}, nil)
	msg := channelMsg(42, "Claim here: https://playstake.club/bonus?code=BoostWeekly16A25")

	require.NoError(t, h.detector.Process(context.Background(), msg))
	assert.Equal(t, 1, h.pub.count())

	// Redelivery of the same message, including as an edit, is a no-op.
	edited := *msg
	edited.Event = msgdomain.EventEdited
	require.NoError(t, h.detector.Process(context.Background(), &edited))
	require.NoError(t, h.detector.Process(context.Background(), msg))
	assert.Equal(t, 1, h.pub.count())
}

func TestDetector_DirectLinkKindAndLinks(t *testing.T) {
	h := newHarness(Options{}, nil)
	msg := channelMsg(42, "Claim here: https://playstake.club/bonus?code=BoostWeekly16A25")

	require.NoError(t, h.detector.Process(context.Background(), msg))
	require.Equal(t, 1, h.pub.count())

	p := h.pub.payloads[0]
	// Weekly is a calendar kind, so the simplified link form is used.
	assert.Equal(t, "https://playstake.club?bonus=BoostWeekly16A25", p.PrimaryLinkURL)
	assert.Equal(t, "https://playstake.bet?bonus=BoostWeekly16A25", p.SecondaryLinkURL)
	assert.NotContains(t, p.Title, "{DATE}")
}

func TestDetector_ChannelFilter(t *testing.T) {
	h := newHarness(Options{
		AllowedIDs: map[string]struct{}{"-1009999": {}},
	}, nil)
	msg := channelMsg(42, "Claim here: https://playstake.club/bonus?code=BoostWeekly16A25")

	require.NoError(t, h.detector.Process(context.Background(), msg))
	assert.Zero(t, h.pub.count())
}

func TestDetector_ChannelFilterByHandle(t *testing.T) {
	h := newHarness(Options{
		AllowedHandles: map[string]struct{}{"dropschannel": {}},
	}, nil)
	msg := channelMsg(42, "Claim here: https://playstake.club/bonus?code=BoostWeekly16A25")
	msg.ChannelID = ""
	msg.ChannelHandle = "DropsChannel"

	require.NoError(t, h.detector.Process(context.Background(), msg))
	assert.Equal(t, 1, h.pub.count())
}

func TestDetector_EmptyFilterWatchesEverything(t *testing.T) {
	h := newHarness(Options{}, nil)
	msg := channelMsg(42, "Claim here: https://playstake.club/bonus?code=BoostWeekly16A25")
	msg.ChannelID = "-1005555"

	require.NoError(t, h.detector.Process(context.Background(), msg))
	assert.Equal(t, 1, h.pub.count())
}

func TestDetector_AnnouncementThenBareCode(t *testing.T) {
	h := newHarness(Options{}, nil)

	ann := channelMsg(1, "FINAL BONUS DROP INCOMING!\nValue: $100\nTotal Drop Limit: $5,000")
	require.NoError(t, h.detector.Process(context.Background(), ann))
	assert.Zero(t, h.pub.count(), "announcement alone must not publish")

	code := channelMsg(2, "goodluck12")
	require.NoError(t, h.detector.Process(context.Background(), code))
	require.Equal(t, 1, h.pub.count())

	p := h.pub.payloads[0]
	assert.Contains(t, p.Description, "**Value:** $100")
	assert.Contains(t, p.Description, "**Total Drop Limit:** $5,000")
	assert.Contains(t, p.PrimaryLinkURL, "code=goodluck12")
	assert.Contains(t, p.PrimaryLinkURL, "modal=redeemBonus")

	// The entry was consumed; a second bare code yields nothing.
	code2 := channelMsg(3, "anothercode")
	require.NoError(t, h.detector.Process(context.Background(), code2))
	assert.Equal(t, 1, h.pub.count())
}

func TestDetector_BareCodeAfterTTLYieldsNothing(t *testing.T) {
	seen := newFakeSeen()
	pub := &fakePublisher{}
	cache := correlation.New(time.Millisecond)
	builder := publish.NewBuilder("Bronze", "")
	d := NewDetector(Options{}, cache, seen, builder, pub, nil, nil, nil)

	ann := channelMsg(1, "DROP INCOMING\nValue: $100")
	require.NoError(t, d.Process(context.Background(), ann))

	time.Sleep(5 * time.Millisecond)

	code := channelMsg(2, "goodluck12")
	require.NoError(t, d.Process(context.Background(), code))
	assert.Zero(t, pub.count())
}

func TestDetector_ComingSoonDiscarded(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.cache.Store("-1001234", nil)

	msg := channelMsg(5, "FINAL BONUS DROP IS COMING IN FEW SECONDS!")
	require.NoError(t, h.detector.Process(context.Background(), msg))
	assert.Zero(t, h.pub.count())
}

func TestDetector_SpoilerCodeWithCaptionConditions(t *testing.T) {
	h := newHarness(Options{}, nil)

	text := "Value: $50\nLimit: $1,000\nabc123xyz789"
	msg := channelMsg(7, text)
	msg.Entities = []msgdomain.Entity{
		{Kind: msgdomain.EntitySpoiler, Offset: 25, Length: 12},
	}

	require.NoError(t, h.detector.Process(context.Background(), msg))
	require.Equal(t, 1, h.pub.count())

	p := h.pub.payloads[0]
	assert.Contains(t, p.Description, "**Value:** $50")
	assert.Contains(t, p.Description, "**Limit:** $1,000")
	assert.Contains(t, p.PrimaryLinkURL, "code=abc123xyz789")
}

func TestDetector_MediaFallback(t *testing.T) {
	h := newHarness(Options{}, &fakeRecognizer{text: "use code stakecomaugust25 at checkout"})

	msg := channelMsg(9, "Value: $25")
	msg.Media = &msgdomain.Media{Kind: msgdomain.MediaPhoto, FileID: "file1"}

	require.NoError(t, h.detector.Process(context.Background(), msg))
	require.Equal(t, 1, h.pub.count())

	p := h.pub.payloads[0]
	assert.Contains(t, p.PrimaryLinkURL, "code=stakecomaugust25")
	assert.Contains(t, p.Description, "**Value:** $25")
}

func TestDetector_MediaRecognitionFailureAbortsQuietly(t *testing.T) {
	h := newHarness(Options{}, &fakeRecognizer{err: errors.New("engine down")})

	msg := channelMsg(9, "")
	msg.Media = &msgdomain.Media{Kind: msgdomain.MediaPhoto, FileID: "file1"}

	err := h.detector.Process(context.Background(), msg)
	assert.Error(t, err)
	assert.Zero(t, h.pub.count())

	// The failure is message-scoped: the next message is unaffected.
	next := channelMsg(10, "Claim: https://playstake.club/bonus?code=BoostWeekly16A25")
	require.NoError(t, h.detector.Process(context.Background(), next))
	assert.Equal(t, 1, h.pub.count())
}

func TestDetector_PublishFailureNoRetry(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.pub.err = errors.New("discord down")

	msg := channelMsg(11, "Claim: https://playstake.club/bonus?code=BoostWeekly16A25")
	assert.Error(t, h.detector.Process(context.Background(), msg))
	assert.Zero(t, h.pub.count())
}

func TestDetector_SeenStoreFailureAborts(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.seen.err = errors.New("db locked")

	msg := channelMsg(12, "Claim: https://playstake.club/bonus?code=BoostWeekly16A25")
	assert.Error(t, h.detector.Process(context.Background(), msg))
	assert.Zero(t, h.pub.count())
}

func TestDetector_UnhandledDiscarded(t *testing.T) {
	h := newHarness(Options{}, nil)
	msg := channelMsg(13, "gm friends, nothing today")
	require.NoError(t, h.detector.Process(context.Background(), msg))
	assert.Zero(t, h.pub.count())
}

func TestDedupKey(t *testing.T) {
	msg := channelMsg(42, "x")
	assert.Equal(t, "tg:-1001234:42", DedupKey(msg))

	anon := &msgdomain.Message{ID: 7}
	assert.Equal(t, "tg:x:7", DedupKey(anon))
}
