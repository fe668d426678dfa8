package models

import "time"

// Entry types for bookmarks
const (
	// EntryTypeVideo is a linked-media entry: an external URL plus
	// metadata fetched from the video platform.
	EntryTypeVideo = "video"
	// EntryTypeManual is a manual entry: a title and a user-entered date,
	// no URL or fetched metadata.
	EntryTypeManual = "manual"
)

// Bookmark represents a saved media reference attached to exactly one folder
type Bookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FolderID  uint      `gorm:"not null;index" json:"folder_id"`
	EntryType string    `gorm:"not null;default:video" json:"entry_type"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Uploader  string    `json:"uploader"`
	// UploadDate is the publish date as YYYY-MM-DD; the string form sorts
	// chronologically. Nil for entries with no known date.
	UploadDate      *string `json:"upload_date"`
	DurationSeconds *int    `json:"duration_seconds"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	// SubtitlePath is the stored subtitle file path relative to the
	// subtitle directory; empty when no subtitle is attached.
	SubtitlePath string `json:"subtitle_path"`

	// Relationships
	Folder Folder `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
}
