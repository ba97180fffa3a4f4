package service

import (
	"context"
	"log/slog"
	"strings"

	"ninescapeland/internal/domain/models"
	"ninescapeland/internal/domain/repositories"
	"ninescapeland/internal/storage"
)

// BrowseResult is one level of the media library: the breadcrumb to the
// current folder, its direct child folders, and its assets.
type BrowseResult struct {
	Breadcrumb []models.Folder `json:"breadcrumb"`
	Folders    []models.Folder `json:"folders"`
	Assets     []models.Asset  `json:"assets"`
}

// GalleryService presents folders and assets for browsing and picking.
type GalleryService struct {
	folderRepo repositories.FolderRepository
	assetRepo  repositories.AssetRepository
	blobs      storage.BlobStore
	logger     *slog.Logger
}

// NewGalleryService creates a new gallery service
func NewGalleryService(
	folderRepo repositories.FolderRepository,
	assetRepo repositories.AssetRepository,
	blobs storage.BlobStore,
	logger *slog.Logger,
) *GalleryService {
	return &GalleryService{
		folderRepo: folderRepo,
		assetRepo:  assetRepo,
		blobs:      blobs,
		logger:     logger,
	}
}

// Browse returns the contents of one folder level (nil = root), optionally
// filtered by a case-insensitive substring query. The filter applies to the
// current level only; it does not recurse into subfolders.
//
// List failures degrade to empty lists and are logged, not surfaced: the
// gallery is an admin convenience view and must not crash on a flaky query.
func (s *GalleryService) Browse(ctx context.Context, parentID *string, query string) *BrowseResult {
	result := &BrowseResult{
		Breadcrumb: []models.Folder{},
		Folders:    []models.Folder{},
		Assets:     []models.Asset{},
	}

	if parentID != nil {
		result.Breadcrumb = s.Breadcrumb(ctx, *parentID)
	}

	// An empty level comes back as a nil slice; keep the initialized empty
	// slices so the response serializes [] rather than null
	folders, err := s.folderRepo.ListChildren(ctx, parentID)
	if err != nil {
		s.logger.Error("failed to list folders", "parent_id", parentID, "error", err)
	} else if folders != nil {
		result.Folders = folders
	}

	assets, err := s.assetRepo.ListByFolder(ctx, parentID)
	if err != nil {
		s.logger.Error("failed to list assets", "folder_id", parentID, "error", err)
	} else if assets != nil {
		result.Assets = assets
	}

	if query != "" {
		q := strings.ToLower(query)

		filtered := result.Folders[:0]
		for _, f := range result.Folders {
			if strings.Contains(strings.ToLower(f.Name), q) {
				filtered = append(filtered, f)
			}
		}
		result.Folders = filtered

		filteredAssets := result.Assets[:0]
		for _, a := range result.Assets {
			if strings.Contains(strings.ToLower(a.FileName), q) {
				filteredAssets = append(filteredAssets, a)
			}
		}
		result.Assets = filteredAssets
	}

	for i := range result.Assets {
		s.decorate(&result.Assets[i])
	}

	return result
}

// Breadcrumb walks parent references upward from folderID to the root and
// returns the ordered root-to-leaf list. Bounded by tree depth. If any
// lookup fails the walk stops and the partial trail is returned: breadcrumb
// display is non-critical and must not take the page down.
func (s *GalleryService) Breadcrumb(ctx context.Context, folderID string) []models.Folder {
	var trail []models.Folder

	currentID := &folderID
	for currentID != nil {
		folder, err := s.folderRepo.GetByID(ctx, *currentID)
		if err != nil {
			s.logger.Warn("breadcrumb lookup failed, truncating", "folder_id", *currentID, "error", err)
			break
		}
		trail = append([]models.Folder{*folder}, trail...)
		currentID = folder.ParentID
	}

	if trail == nil {
		return []models.Folder{}
	}
	return trail
}

// decorate fills in the computed public URLs. The thumbnail URL is derived
// by key convention; clients fall back to the full URL on image-load error,
// which covers assets that predate thumbnailing or whose thumbnail
// generation failed.
func (s *GalleryService) decorate(asset *models.Asset) {
	asset.URL = s.blobs.PublicURL(asset.FilePath)
	asset.ThumbURL = s.blobs.PublicURL(storage.ThumbKey(asset.FilePath))
}
