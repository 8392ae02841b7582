package domain

// EntityKind is the closed set of formatting entity variants the pipeline
// cares about. Unknown platform entity types map to EntityOther and are
// ignored, not errored.
type EntityKind string

const (
	EntityTextLink EntityKind = "text_link"
	EntityURL      EntityKind = "url"
	EntitySpoiler  EntityKind = "spoiler"
	EntityOther    EntityKind = "other"
)

// ParseEntityKind maps a Telegram entity type string to an EntityKind.
func ParseEntityKind(s string) EntityKind {
	switch s {
	case "text_link":
		return EntityTextLink
	case "url":
		return EntityURL
	case "spoiler":
		return EntitySpoiler
	default:
		return EntityOther
	}
}

// MediaKind represents the type of attached media.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// EventKind tags a message delivery as a new post or an edit.
type EventKind string

const (
	EventNew    EventKind = "new"
	EventEdited EventKind = "edited"
)
