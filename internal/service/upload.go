package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ninescapeland/internal/config"
	"ninescapeland/internal/domain"
	"ninescapeland/internal/domain/models"
	"ninescapeland/internal/domain/repositories"
	"ninescapeland/internal/imaging"
	"ninescapeland/internal/storage"
)

// batchRetention is how long finished batches stay queryable before the
// registry prunes them.
const batchRetention = time.Hour

// UploadFile is one file handed to the pipeline. RelativePath is set for
// folder uploads and preserves the subpath under the chosen directory root.
type UploadFile struct {
	Name         string
	RelativePath string
	ContentType  string
	Data         []byte
}

// uploadBatch is the registry's mutable record of one running batch.
// Items are mutated only by the single pipeline goroutine driving the batch;
// readers take snapshots under the mutex.
type uploadBatch struct {
	id        string
	folderID  *string
	createdAt time.Time
	cancelled atomic.Bool

	mu    sync.Mutex
	items []models.UploadItem
	done  bool
}

// snapshot returns a consistent copy for progress reporting.
func (b *uploadBatch) snapshot() *models.UploadBatch {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]models.UploadItem, len(b.items))
	copy(items, b.items)

	return &models.UploadBatch{
		ID:        b.id,
		FolderID:  b.folderID,
		Items:     items,
		Done:      b.done,
		Cancelled: b.cancelled.Load(),
		CreatedAt: b.createdAt,
	}
}

// mutate applies fn to item i unless the item already reached a terminal
// state. Status transitions stay monotonic: success and error are final.
func (b *uploadBatch) mutate(i int, fn func(*models.UploadItem)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	item := &b.items[i]
	if item.Status == models.UploadStatusSuccess || item.Status == models.UploadStatusError {
		return
	}
	fn(item)
}

// UploadService drives upload batches: sequential per-file processing with
// derivative generation, blob writes, metadata inserts, per-item progress,
// and cooperative cancellation.
type UploadService struct {
	assetRepo repositories.AssetRepository
	resolver  *PathResolver
	blobs     storage.BlobStore
	presets   *imaging.Presets
	logger    *slog.Logger

	mu      sync.RWMutex
	batches map[string]*uploadBatch
}

// NewUploadService creates a new upload service
func NewUploadService(
	assetRepo repositories.AssetRepository,
	resolver *PathResolver,
	blobs storage.BlobStore,
	presets *imaging.Presets,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		assetRepo: assetRepo,
		resolver:  resolver,
		blobs:     blobs,
		presets:   presets,
		logger:    logger,
		batches:   make(map[string]*uploadBatch),
	}
}

// Start registers a batch for the given files and begins processing it on a
// single goroutine. The returned snapshot carries the batch id for progress
// polling. The batch outlives the originating request.
func (s *UploadService) Start(ctx context.Context, files []UploadFile, folderID *string) (*models.UploadBatch, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", domain.ErrValidation)
	}
	for _, f := range files {
		if f.Name == "" || len(f.Name) > config.MaxFileNameLength {
			return nil, fmt.Errorf("%w: invalid file name %q", domain.ErrValidation, f.Name)
		}
	}
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	batch := &uploadBatch{
		id:        uuid.New().String(),
		folderID:  folderID,
		createdAt: time.Now(),
		items:     make([]models.UploadItem, len(files)),
	}
	for i, f := range files {
		batch.items[i] = models.UploadItem{
			ID:           uuid.New().String(),
			FileName:     f.Name,
			RelativePath: f.RelativePath,
			Status:       models.UploadStatusPending,
		}
	}

	s.mu.Lock()
	if s.batches == nil {
		s.batches = make(map[string]*uploadBatch)
	}
	s.pruneLocked()
	s.batches[batch.id] = batch
	s.mu.Unlock()

	s.logger.Info("upload batch started",
		"batch_id", batch.id,
		"file_count", len(files),
		"folder_id", folderID,
	)

	go s.run(context.WithoutCancel(ctx), batch, files)

	return batch.snapshot(), nil
}

// Get returns a progress snapshot for a batch.
func (s *UploadService) Get(batchID string) (*models.UploadBatch, error) {
	s.mu.RLock()
	batch, ok := s.batches[batchID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("upload batch %s: %w", batchID, domain.ErrNotFound)
	}
	return batch.snapshot(), nil
}

// Cancel requests cooperative cancellation of a batch. The flag is checked
// before each item starts; an item already mid-upload runs to completion.
// Remaining items stay pending, not error.
func (s *UploadService) Cancel(batchID string) (*models.UploadBatch, error) {
	s.mu.RLock()
	batch, ok := s.batches[batchID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("upload batch %s: %w", batchID, domain.ErrNotFound)
	}

	batch.cancelled.Store(true)
	s.logger.Info("upload batch cancellation requested", "batch_id", batchID)
	return batch.snapshot(), nil
}

// pruneLocked drops finished batches past retention. Caller holds s.mu.
func (s *UploadService) pruneLocked() {
	cutoff := time.Now().Add(-batchRetention)
	for id, b := range s.batches {
		b.mu.Lock()
		expired := b.done && b.createdAt.Before(cutoff)
		b.mu.Unlock()
		if expired {
			delete(s.batches, id)
		}
	}
}

// run processes the batch items strictly in order. No two items' upload
// steps ever interleave; one decode/encode is in flight at a time, which
// bounds peak memory and keeps progress deterministic.
func (s *UploadService) run(ctx context.Context, batch *uploadBatch, files []UploadFile) {
	resolver := NewBatchResolver(s.resolver, batch.folderID)

	for i := range files {
		if batch.cancelled.Load() {
			// Remaining pending items are left untouched
			s.logger.Info("upload batch cancelled",
				"batch_id", batch.id,
				"processed", i,
				"remaining", len(files)-i,
			)
			break
		}

		batch.mutate(i, func(item *models.UploadItem) {
			item.Status = models.UploadStatusUploading
			item.Progress = 0
		})

		assetID, err := s.processItem(ctx, batch, resolver, i, files[i])
		if err != nil {
			batch.mutate(i, func(item *models.UploadItem) {
				item.Status = models.UploadStatusError
				item.Error = err.Error()
			})
			s.logger.Warn("upload item failed",
				"batch_id", batch.id,
				"file", files[i].Name,
				"error", err,
			)
			continue
		}

		batch.mutate(i, func(item *models.UploadItem) {
			item.Status = models.UploadStatusSuccess
			item.Progress = 100
			item.AssetID = assetID
		})
	}

	batch.mu.Lock()
	batch.done = true
	batch.mu.Unlock()

	s.logger.Info("upload batch finished", "batch_id", batch.id)
}

// processItem runs the per-file procedure: resolve target folder, derive
// compressed/thumbnail blobs, write blobs, insert the metadata row. The
// metadata row is only written after the main blob upload succeeds, so a
// failed item never leaves a row pointing at nothing. The reverse gap is
// accepted: an insert failure leaves the already-written blob orphaned.
func (s *UploadService) processItem(
	ctx context.Context,
	batch *uploadBatch,
	resolver *BatchResolver,
	i int,
	file UploadFile,
) (string, error) {
	targetFolder := batch.folderID
	fileName := file.Name

	// Folder uploads carry a relative path: its directory part maps onto the
	// folder tree under the selected target
	if rel := strings.Trim(file.RelativePath, "/"); rel != "" {
		fileName = path.Base(rel)
		if dir := path.Dir(rel); dir != "." {
			resolved, err := resolver.Resolve(ctx, strings.Split(dir, "/"))
			if err != nil {
				return "", fmt.Errorf("resolve folder path %q: %w", dir, err)
			}
			targetFolder = resolved
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}

	data := file.Data
	ext := path.Ext(fileName)
	if ext == "" {
		ext = ".bin"
	}

	var width, height *int
	var thumbData []byte

	if s.presets.IsCompressible(contentType) {
		// Natural pixel dimensions go on the metadata row; unreadable
		// headers just leave them unset
		if w, h, err := imaging.Dimensions(data); err == nil {
			width, height = &w, &h
		}
		batch.mutate(i, func(item *models.UploadItem) { item.Progress = 10 })

		// Compression failure falls back to the original bytes rather than
		// failing the item
		if compressed, err := imaging.Compress(data, s.presets.Compress.MaxWidth, s.presets.Compress.MaxHeight, s.presets.Compress.Quality); err != nil {
			s.logger.Warn("compress failed, uploading original",
				"batch_id", batch.id,
				"file", fileName,
				"error", err,
			)
		} else {
			data = compressed
			contentType = "image/jpeg"
			ext = ".jpg"
		}
		batch.mutate(i, func(item *models.UploadItem) { item.Progress = 20 })

		// Thumbnail failure is swallowed; the asset just goes without one
		if t, err := imaging.Thumbnail(file.Data, s.presets.Thumbnail.Size, s.presets.Thumbnail.Quality); err != nil {
			s.logger.Warn("thumbnail generation failed, skipping",
				"batch_id", batch.id,
				"file", fileName,
				"error", err,
			)
		} else {
			thumbData = t
		}
	}
	batch.mutate(i, func(item *models.UploadItem) { item.Progress = 30 })

	baseKey := storage.NewBaseKey()
	mainKey := storage.ObjectKey(targetFolder, baseKey, ext)

	if err := s.blobs.Upload(ctx, mainKey, data, contentType); err != nil {
		return "", fmt.Errorf("upload blob: %w", err)
	}
	batch.mutate(i, func(item *models.UploadItem) { item.Progress = 70 })

	if thumbData != nil {
		thumbKey := storage.ThumbKey(mainKey)
		if err := s.blobs.Upload(ctx, thumbKey, thumbData, "image/jpeg"); err != nil {
			// Non-fatal: the gallery falls back to the full image
			s.logger.Warn("thumbnail upload failed, proceeding without",
				"batch_id", batch.id,
				"key", thumbKey,
				"error", err,
			)
		}
	}
	batch.mutate(i, func(item *models.UploadItem) { item.Progress = 90 })

	asset := &models.Asset{
		FolderID:  targetFolder,
		FileName:  fileName,
		FilePath:  mainKey,
		Size:      int64(len(data)),
		MimeType:  contentType,
		Width:     width,
		Height:    height,
		CreatedAt: time.Now(),
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		// The main blob stays behind; orphans are swept by a separate
		// maintenance pass, not here
		return "", fmt.Errorf("insert asset metadata: %w", err)
	}

	return asset.ID, nil
}
