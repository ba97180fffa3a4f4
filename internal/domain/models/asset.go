package models

import (
	"time"
)

// Asset is a stored media file. FilePath is the object key of the main blob
// in the object store; the thumbnail is convention-addressed from it (same
// directory, "thumb_" filename prefix) and has no row of its own.
type Asset struct {
	ID        string    `json:"id"`
	FolderID  *string   `json:"folder_id"` // NULL = root level
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"` // Object key of the main blob
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type"`
	Width     *int      `json:"width,omitempty"`  // Only populated for decodable images
	Height    *int      `json:"height,omitempty"` // Only populated for decodable images
	CreatedAt time.Time `json:"created_at"`

	// Computed public URLs, not stored in DB
	URL      string `json:"url,omitempty"`
	ThumbURL string `json:"thumb_url,omitempty"`
}
