package service

import (
	"context"
	"fmt"
	"strings"

	"ninescapeland/internal/config"
	"ninescapeland/internal/domain"
	"ninescapeland/internal/domain/repositories"
)

// PathResolver resolves a chain of folder-name segments to a folder id,
// creating missing folders along the way. Used by folder uploads, where each
// file carries a relative path that must map onto the folder tree.
type PathResolver struct {
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
}

// NewPathResolver creates a new path resolver
func NewPathResolver(
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
) *PathResolver {
	return &PathResolver{
		folderRepo: folderRepo,
		txManager:  txManager,
	}
}

// Resolve walks segments left to right under baseParent, descending into the
// existing folder for each segment or creating it when absent. Empty segments
// are skipped (defends against doubled separators). Returns the final parent
// id; nil means root. Any creation failure aborts the whole resolution.
func (s *PathResolver) Resolve(ctx context.Context, segments []string, baseParent *string) (*string, error) {
	// Create all folders in the hierarchy within a transaction
	var resultFolderID *string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		currentParentID := baseParent

		for _, segment := range segments {
			if segment == "" {
				continue
			}

			if len(segment) > config.MaxFolderNameLength {
				return fmt.Errorf("%w: folder name '%s' exceeds maximum length of %d",
					domain.ErrValidation, segment, config.MaxFolderNameLength)
			}

			// Create folder if it doesn't exist (idempotent)
			folder, err := s.folderRepo.CreateIfNotExists(txCtx, currentParentID, segment)
			if err != nil {
				return fmt.Errorf("failed to create/get folder '%s': %w", segment, err)
			}

			// Move to next level
			currentParentID = &folder.ID
		}

		resultFolderID = currentParentID
		return nil
	})

	if err != nil {
		return nil, err
	}

	return resultFolderID, nil
}

// ResolvePath splits a slash-separated path and resolves it.
func (s *PathResolver) ResolvePath(ctx context.Context, folderPath string, baseParent *string) (*string, error) {
	folderPath = strings.Trim(folderPath, "/")
	if folderPath == "" {
		return baseParent, nil
	}
	if len(folderPath) > config.MaxFolderPathLength {
		return nil, fmt.Errorf("%w: folder path exceeds maximum length of %d",
			domain.ErrValidation, config.MaxFolderPathLength)
	}
	return s.Resolve(ctx, strings.Split(folderPath, "/"), baseParent)
}

// BatchResolver memoizes path resolution for one upload batch so N files
// sharing a directory prefix trigger folder lookup/creation only once. Not
// safe for concurrent use; the upload pipeline drives it from a single
// goroutine.
type BatchResolver struct {
	resolver   *PathResolver
	baseParent *string
	cache      map[string]*string // joined path -> resolved folder id
}

// NewBatchResolver creates a resolver cache rooted at baseParent.
func NewBatchResolver(resolver *PathResolver, baseParent *string) *BatchResolver {
	return &BatchResolver{
		resolver:   resolver,
		baseParent: baseParent,
		cache:      make(map[string]*string),
	}
}

// Resolve returns the folder id for the given directory segments, consulting
// the cache first.
func (b *BatchResolver) Resolve(ctx context.Context, segments []string) (*string, error) {
	key := strings.Join(segments, "/")
	if key == "" {
		return b.baseParent, nil
	}

	if id, ok := b.cache[key]; ok {
		return id, nil
	}

	id, err := b.resolver.Resolve(ctx, segments, b.baseParent)
	if err != nil {
		return nil, err
	}

	b.cache[key] = id
	return id, nil
}
