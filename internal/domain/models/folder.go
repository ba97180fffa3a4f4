package models

import (
	"time"
)

// Folder is a node in the media library hierarchy. ParentID nil means the
// folder sits at the root. The ancestor chain is finite and acyclic by
// construction: folders are only ever created under an existing parent.
type Folder struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parent_id"` // NULL = root level
	Name      string    `json:"name"`
	Path      string    `json:"path,omitempty"` // Computed display path, not stored in DB
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
