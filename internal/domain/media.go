package domain

// MediaType categorizes an uploaded asset.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaVisibility controls who may fetch an asset.
type MediaVisibility string

const (
	// MediaVisibilityEvent restricts access to the event's owners.
	MediaVisibilityEvent MediaVisibility = "event"
	// MediaVisibilityPublic allows unauthenticated access, for assets
	// embedded in invitations sent to guests.
	MediaVisibilityPublic MediaVisibility = "public"
)

// Media represents an uploaded asset attached to an event. StorageKey
// locates the object in whichever storage backend is configured.
type Media struct {
	Syncable
	EventID    string          `json:"event_id"`
	UploaderID string          `json:"uploader_id"`
	StorageKey string          `json:"storage_key"`
	URL        string          `json:"url"`
	Type       MediaType       `json:"type"`
	Caption    string          `json:"caption,omitempty"`
	Visibility MediaVisibility `json:"visibility"`

	// Derived display assets, set for images only.
	BlurHash     string `json:"blurhash,omitempty"`
	ThumbnailKey string `json:"thumbnail_key,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Invitation is a message sent to guests, optionally carrying a media
// asset.
type Invitation struct {
	Syncable
	EventID   string `json:"event_id"`
	CreatorID string `json:"creator_id"`
	MediaID   string `json:"media_id,omitempty"`
	Text      string `json:"text"`
}
