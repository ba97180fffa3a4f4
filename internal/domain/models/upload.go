package models

import (
	"time"
)

// UploadStatus is the lifecycle state of a single item in an upload batch.
// Transitions are monotonic: pending → uploading → (success | error).
// Once success or error, the item is never mutated again.
type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusSuccess   UploadStatus = "success"
	UploadStatusError     UploadStatus = "error"
)

// UploadItem tracks the progress of one file in a batch. It is transient
// state held by the batch registry, never persisted.
type UploadItem struct {
	ID           string       `json:"id"`
	FileName     string       `json:"file_name"`
	RelativePath string       `json:"relative_path,omitempty"` // Subpath for folder uploads, "" otherwise
	Status       UploadStatus `json:"status"`
	Progress     int          `json:"progress"` // 0-100
	Error        string       `json:"error,omitempty"`
	AssetID      string       `json:"asset_id,omitempty"` // Set on success
}

// UploadBatch is a snapshot of one upload batch for progress reporting.
type UploadBatch struct {
	ID        string       `json:"id"`
	FolderID  *string      `json:"folder_id"` // Target folder selected for the batch
	Items     []UploadItem `json:"items"`
	Done      bool         `json:"done"`
	Cancelled bool         `json:"cancelled"`
	CreatedAt time.Time    `json:"created_at"`
}
