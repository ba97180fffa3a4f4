package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ninescapeland/internal/config"
	"ninescapeland/internal/domain"
	"ninescapeland/internal/domain/models"
	"ninescapeland/internal/domain/repositories"
	"ninescapeland/internal/httputil"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

// CreateFolderRequest is the payload for folder creation.
type CreateFolderRequest struct {
	ParentID *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
}

// UpdateFolderRequest is the payload for renaming or moving a folder.
// ParentID is tri-state: absent = keep, null = move to root, value = move.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// FolderService manages the media folder hierarchy.
type FolderService struct {
	folderRepo repositories.FolderRepository
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(folderRepo repositories.FolderRepository, logger *slog.Logger) *FolderService {
	return &FolderService{
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// CreateFolder creates a new folder under the given parent (nil = root)
func (s *FolderService) CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Parent must exist before hanging a child under it
	if req.ParentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	// Check for duplicate name in target folder
	existing, err := s.folderRepo.GetByNameAndParent(ctx, req.Name, req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", req.Name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	folder := &models.Folder{
		ParentID:  req.ParentID,
		Name:      req.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	folder.Path = s.computePath(ctx, folder)

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"path", folder.Path,
	)

	return folder, nil
}

// GetFolder retrieves a folder with its computed path
func (s *FolderService) GetFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	folder.Path = s.computePath(ctx, folder)
	return folder, nil
}

// UpdateFolder renames and/or moves a folder
func (s *FolderService) UpdateFolder(ctx context.Context, folderID string, req *UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}

	// Tri-state: only update location if the field was present in the request
	if req.ParentID.Present {
		if req.ParentID.Value != nil {
			parent, err := s.folderRepo.GetByID(ctx, *req.ParentID.Value)
			if err != nil {
				return nil, fmt.Errorf("parent folder not found: %w", err)
			}

			// Moving a folder under itself or its descendants would break the
			// acyclic-ancestry invariant
			if err := s.validateNoCircularReference(ctx, folderID, parent.ID); err != nil {
				return nil, err
			}

			folder.ParentID = &parent.ID
		} else {
			// null = move to root
			folder.ParentID = nil
		}
	}

	// Check for duplicate name in target folder
	existing, err := s.folderRepo.GetByNameAndParent(ctx, folder.Name, folder.ParentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if existing != nil && existing.ID != folder.ID {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	folder.Path = s.computePath(ctx, folder)

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"path", folder.Path,
	)

	return folder, nil
}

// DeleteFolder deletes a folder. Contained folders and assets cascade at the
// database level; their blobs remain in the object store (cleaned by a
// separate maintenance pass, not this service).
func (s *FolderService) DeleteFolder(ctx context.Context, folderID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	if err := s.folderRepo.Delete(ctx, folderID); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"name", folder.Name,
	)

	return nil
}

// computePath walks parent references to build the display path. Breadcrumb
// display is non-critical, so lookup failures fall back to the bare name.
func (s *FolderService) computePath(ctx context.Context, folder *models.Folder) string {
	names := []string{folder.Name}
	parentID := folder.ParentID

	for parentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *parentID)
		if err != nil {
			s.logger.Warn("failed to compute path", "folder_id", folder.ID, "error", err)
			return folder.Name
		}
		names = append([]string{parent.Name}, names...)
		parentID = parent.ParentID
	}

	return strings.Join(names, "/")
}

// validateCreateRequest validates a folder creation request
func (s *FolderService) validateCreateRequest(req *CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *FolderService) validateUpdateRequest(req *UpdateFolderRequest) error {
	// At least one field must be provided
	if req.Name == nil && !req.ParentID.Present {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Name != nil {
		return validation.ValidateStruct(req,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
				validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
			),
		)
	}

	return nil
}

// validateNoCircularReference ensures moving a folder won't create circular references
func (s *FolderService) validateNoCircularReference(ctx context.Context, folderID, newParentID string) error {
	// Can't move folder to be its own parent
	if folderID == newParentID {
		return fmt.Errorf("%w: cannot move folder into itself", domain.ErrValidation)
	}

	// Check if newParentID is a descendant of folderID
	currentID := newParentID
	for {
		parent, err := s.folderRepo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}

		if parent.ParentID == nil {
			// Reached root, no circular reference
			return nil
		}

		if *parent.ParentID == folderID {
			return fmt.Errorf("%w: cannot move folder into its own descendant", domain.ErrValidation)
		}

		currentID = *parent.ParentID
	}
}
