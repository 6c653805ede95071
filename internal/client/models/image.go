package models

import "time"

// ImageRecord is a conversion result as reported by the backend, either
// temporary (unfinalized) or confirmed for the permanent gallery.
type ImageRecord struct {
	ImageID      string    `json:"image_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	IsFinal      bool      `json:"is_final"`
	TransformURL string    `json:"transform_url,omitempty"`
}

// PredictResult is the response of a conversion request.
type PredictResult struct {
	Message   string    `json:"message"`
	ImageID   string    `json:"image_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GalleryItem is a displayable conversion result owned by the workflow.
//
// ID is either a server-issued image id or, for purely local placeholders,
// a client-generated ephemeral id that is never sent to the backend.
type GalleryItem struct {
	ID        string
	ImageURL  string
	Timestamp string
	IsFinal   bool
	Ephemeral bool
}

// DisplayTime is the layout used for user-facing timestamps.
const DisplayTime = "2006-01-02 15:04:05"

// FormatTimestamp renders t for display in the local timezone. A zero time
// falls back to now, matching how freshly converted items are stamped.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Local().Format(DisplayTime)
}
