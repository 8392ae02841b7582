// Package media recovers bonus codes from image and video attachments by
// delegating to an external text-recognition engine. The package owns only
// the surrounding discipline: per-attachment idempotency and the code
// heuristic applied to whatever text the engine returns.
package media

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	msgdomain "github.com/mlevasseur/bonus-watcher/internal/modules/message/domain"
)

// Result is what the engine returns for a single image.
type Result struct {
	Text       string
	Confidence int
}

// VideoResult adds the number of frames the engine examined. Frames are
// sampled from the final seconds of the clip, most recent first, stopping
// at the first frame yielding text.
type VideoResult struct {
	Result
	FramesExamined int
}

// Recognizer is the external recognition capability.
type Recognizer interface {
	RecognizeImage(ctx context.Context, data []byte) (Result, error)
	RecognizeVideo(ctx context.Context, data []byte, mimeType string) (VideoResult, error)
}

var (
	platformToken = regexp.MustCompile(`(?i)stakecom[a-z0-9]{3,20}`)
	genericToken  = regexp.MustCompile(`(?i)\b[a-z0-9]{10,30}\b`)
)

// CodeFromText applies the bonus-code heuristic to recognized text: a
// platform-prefixed token is preferred, then a generic 10-30 character
// alphanumeric one. Returns "" when neither is present.
func CodeFromText(text string) string {
	if m := platformToken.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	if m := genericToken.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// Recovery wraps a Recognizer with idempotency: an attachment is attempted
// at most once per (message id, media kind), whether or not a code comes
// out of it.
type Recovery struct {
	recognizer Recognizer

	mu        sync.Mutex
	processed map[string]struct{}
}

// NewRecovery creates a Recovery around the given engine.
func NewRecovery(recognizer Recognizer) *Recovery {
	return &Recovery{
		recognizer: recognizer,
		processed:  make(map[string]struct{}),
	}
}

// TryRecover attempts code recovery for one attachment. It returns "" when
// the attachment was already processed, the engine fails, or no token is
// found; engine errors are returned for the caller to log.
func (r *Recovery) TryRecover(ctx context.Context, messageID int64, media *msgdomain.Media, data []byte) (string, error) {
	if media == nil {
		return "", nil
	}

	key := fmt.Sprintf("%d:%s", messageID, media.Kind)
	r.mu.Lock()
	if _, done := r.processed[key]; done {
		r.mu.Unlock()
		return "", nil
	}
	// Marked up front: a failed attempt is not retried either.
	r.processed[key] = struct{}{}
	r.mu.Unlock()

	var text string
	switch media.Kind {
	case msgdomain.MediaPhoto:
		res, err := r.recognizer.RecognizeImage(ctx, data)
		if err != nil {
			return "", err
		}
		text = res.Text
	case msgdomain.MediaVideo:
		res, err := r.recognizer.RecognizeVideo(ctx, data, media.MimeType)
		if err != nil {
			return "", err
		}
		text = res.Text
	default:
		return "", nil
	}

	return CodeFromText(text), nil
}
