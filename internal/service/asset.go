package service

import (
	"context"
	"fmt"
	"log/slog"

	"ninescapeland/internal/domain/models"
	"ninescapeland/internal/domain/repositories"
	"ninescapeland/internal/storage"
)

// AssetService manages stored assets.
type AssetService struct {
	assetRepo repositories.AssetRepository
	blobs     storage.BlobStore
	logger    *slog.Logger
}

// NewAssetService creates a new asset service
func NewAssetService(
	assetRepo repositories.AssetRepository,
	blobs storage.BlobStore,
	logger *slog.Logger,
) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		blobs:     blobs,
		logger:    logger,
	}
}

// GetAsset retrieves an asset with its public URLs
func (s *AssetService) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	asset.URL = s.blobs.PublicURL(asset.FilePath)
	asset.ThumbURL = s.blobs.PublicURL(storage.ThumbKey(asset.FilePath))
	return asset, nil
}

// DeleteAsset removes an asset's blobs and then its metadata row. The main
// blob alone gates row deletion: the row is only deleted after the main blob
// is gone, so a store failure never leaves metadata pointing at a missing
// blob. The convention-addressed thumbnail is removed best-effort, like its
// creation; a leftover thumbnail blob is harmless.
func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Remove(ctx, []string{asset.FilePath}); err != nil {
		s.logger.Error("blob removal failed, keeping metadata row",
			"asset_id", id,
			"file_path", asset.FilePath,
			"error", err,
		)
		return fmt.Errorf("remove blob for asset %s: %w", id, err)
	}

	thumbKey := storage.ThumbKey(asset.FilePath)
	if err := s.blobs.Remove(ctx, []string{thumbKey}); err != nil {
		s.logger.Warn("thumbnail removal failed, proceeding",
			"asset_id", id,
			"key", thumbKey,
			"error", err,
		)
	}

	if err := s.assetRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("asset deleted",
		"id", id,
		"file_name", asset.FileName,
		"file_path", asset.FilePath,
	)

	return nil
}
