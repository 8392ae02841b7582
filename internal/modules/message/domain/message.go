package domain

import "unicode/utf16"

// Message is the platform-independent view of an incoming channel message.
// Transport adapters translate their wire format into this shape; everything
// downstream of the transport works only with it.
type Message struct {
	ID             int64      `json:"id"`
	ChannelID      string     `json:"channel_id"`
	ChannelHandle  string     `json:"channel_handle"`
	Text           string     `json:"text"`
	Entities       []Entity   `json:"entities"`
	LinkPreviewURL string     `json:"link_preview_url,omitempty"`
	ButtonURLs     [][]string `json:"button_urls,omitempty"`
	Media          *Media     `json:"media,omitempty"`
	Event          EventKind  `json:"event"`
}

// Entity is a formatting span inside the message text. Offsets and lengths
// are in UTF-16 code units, as delivered by Telegram; Slice handles the
// conversion when extracting the covered text.
type Entity struct {
	Kind   EntityKind `json:"kind"`
	Offset int        `json:"offset"`
	Length int        `json:"length"`
	// URL is set only for EntityTextLink (the entity carries its own target).
	URL string `json:"url,omitempty"`
}

// Media references an attached photo or video.
type Media struct {
	Kind     MediaKind `json:"kind"`
	FileID   string    `json:"file_id"`
	MimeType string    `json:"mime_type,omitempty"`
}

// ChannelKey returns the identity used for correlation and dedup keys,
// preferring the numeric id over the handle.
func (m *Message) ChannelKey() string {
	if m.ChannelID != "" {
		return m.ChannelID
	}
	return m.ChannelHandle
}

// Slice extracts the text covered by the entity. Out-of-range entities yield
// an empty string rather than a panic.
func (m *Message) Slice(e Entity) string {
	units := utf16.Encode([]rune(m.Text))
	start, end := e.Offset, e.Offset+e.Length
	if start < 0 || end > len(units) || start > end {
		return ""
	}
	return string(utf16.Decode(units[start:end]))
}
