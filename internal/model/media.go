package model

import "strings"

// MediaItem is one playable unit as surfaced by a search provider.
// ID is the provider's identifier and the sole identity key; the
// display fields are optional and may be empty.
type MediaItem struct {
	ID           string `json:"id"`
	Title        string `json:"title,omitempty"`
	Channel      string `json:"channel,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Normalize trims whitespace from all fields. Provider payloads pass
// through here once at the boundary so the core never sees raw records.
func (m MediaItem) Normalize() MediaItem {
	return MediaItem{
		ID:           strings.TrimSpace(m.ID),
		Title:        strings.TrimSpace(m.Title),
		Channel:      strings.TrimSpace(m.Channel),
		ThumbnailURL: strings.TrimSpace(m.ThumbnailURL),
	}
}

// Valid reports whether the item carries an identity.
func (m MediaItem) Valid() bool {
	return strings.TrimSpace(m.ID) != ""
}

// Playlist is a named, id-deduplicated track list.
type Playlist struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Tracks []MediaItem `json:"tracks"`
}
