package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mlevasseur/bonus-watcher/internal/modules/detect"
	msgdomain "github.com/mlevasseur/bonus-watcher/internal/modules/message/domain"
)

// Handler adapts incoming Telegram updates to the domain message model and
// feeds them to the detector.
type Handler struct {
	detector *detect.Detector
}

// New creates a new Telegram handler.
func New(detector *detect.Detector) *Handler {
	return &Handler{detector: detector}
}

// HandleUpdate processes incoming updates. Channel posts and their edits
// both go through the detector; the event kind only matters for logging,
// the dedup key ignores it.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.ChannelPost != nil:
		h.process(ctx, update.ChannelPost, msgdomain.EventNew)
	case update.EditedChannelPost != nil:
		h.process(ctx, update.EditedChannelPost, msgdomain.EventEdited)
	case update.Message != nil && update.Message.Chat.Type == "channel":
		h.process(ctx, update.Message, msgdomain.EventNew)
	}
}

func (h *Handler) process(ctx context.Context, msg *models.Message, event msgdomain.EventKind) {
	m := MapMessage(msg, event)
	slog.Info("message received",
		"event", event, "channel", m.ChannelKey(), "message_id", m.ID)

	// Process logs its own failures; nothing else to do here, the next
	// update must not be affected.
	_ = h.detector.Process(ctx, m)
}

// MapMessage translates a Telegram message into the domain model: tagged
// entity variants, caption fallback, link preview, inline keyboard URLs and
// a media reference.
func MapMessage(msg *models.Message, event msgdomain.EventKind) *msgdomain.Message {
	text := msg.Text
	entities := msg.Entities
	if text == "" && msg.Caption != "" {
		text = msg.Caption
		entities = msg.CaptionEntities
	}

	m := &msgdomain.Message{
		ID:            int64(msg.ID),
		ChannelID:     fmt.Sprintf("%d", msg.Chat.ID),
		ChannelHandle: msg.Chat.Username,
		Text:          text,
		Event:         event,
	}

	for _, ent := range entities {
		m.Entities = append(m.Entities, msgdomain.Entity{
			Kind:   msgdomain.ParseEntityKind(string(ent.Type)),
			Offset: ent.Offset,
			Length: ent.Length,
			URL:    ent.URL,
		})
	}

	if msg.LinkPreviewOptions != nil && msg.LinkPreviewOptions.URL != nil {
		m.LinkPreviewURL = *msg.LinkPreviewOptions.URL
	}

	if msg.ReplyMarkup != nil {
		for _, row := range msg.ReplyMarkup.InlineKeyboard {
			var urls []string
			for _, btn := range row {
				if btn.URL != "" {
					urls = append(urls, btn.URL)
				}
			}
			if len(urls) > 0 {
				m.ButtonURLs = append(m.ButtonURLs, urls)
			}
		}
	}

	switch {
	case len(msg.Photo) > 0:
		// Largest size is last.
		m.Media = &msgdomain.Media{
			Kind:   msgdomain.MediaPhoto,
			FileID: msg.Photo[len(msg.Photo)-1].FileID,
		}
	case msg.Video != nil:
		m.Media = &msgdomain.Media{
			Kind:     msgdomain.MediaVideo,
			FileID:   msg.Video.FileID,
			MimeType: msg.Video.MimeType,
		}
	}

	return m
}
