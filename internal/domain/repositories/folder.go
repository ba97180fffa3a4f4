package repositories

import (
	"context"

	"ninescapeland/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// GetByNameAndParent finds a folder by exact name under a parent.
	// Returns (nil, nil) when no such folder exists.
	GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error)

	// Update updates a folder
	Update(ctx context.Context, folder *models.Folder) error

	// Delete deletes a folder. Contained folders and assets cascade at the
	// database level.
	Delete(ctx context.Context, id string) error

	// ListChildren lists immediate child folders ordered by name
	ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error)

	// CreateIfNotExists creates a folder only if it doesn't exist
	CreateIfNotExists(ctx context.Context, parentID *string, name string) (*models.Folder, error)
}
