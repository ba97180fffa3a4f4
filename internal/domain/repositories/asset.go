package repositories

import (
	"context"

	"ninescapeland/internal/domain/models"
)

// AssetRepository defines data access operations for assets
type AssetRepository interface {
	// Create inserts a new asset row
	Create(ctx context.Context, asset *models.Asset) error

	// GetByID retrieves an asset by ID
	GetByID(ctx context.Context, id string) (*models.Asset, error)

	// ListByFolder lists assets in a folder, newest first
	ListByFolder(ctx context.Context, folderID *string) ([]models.Asset, error)

	// Delete deletes an asset row
	Delete(ctx context.Context, id string) error
}
