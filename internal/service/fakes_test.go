package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"ninescapeland/internal/domain"
	"ninescapeland/internal/domain/models"
	"ninescapeland/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFolderRepo is an in-memory FolderRepository for service tests.
type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*models.Folder
	nextID  int

	createCalls int
	getErr      error // Forced error for GetByID
	listErr     error // Forced error for ListChildren
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

// add seeds a folder directly, bypassing duplicate checks.
func (r *fakeFolderRepo) add(name string, parentID *string) *models.Folder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	f := &models.Folder{
		ID:        fmt.Sprintf("folder-%d", r.nextID),
		ParentID:  parentID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.folders[f.ID] = f
	return f
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.Name == folder.Name && sameParent(f.ParentID, folder.ParentID) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
	}
	r.nextID++
	r.createCalls++
	folder.ID = fmt.Sprintf("folder-%d", r.nextID)
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	f, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.Name == name && sameParent(f.ParentID, parentID) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Folder
	for _, f := range r.folders {
		if sameParent(f.ParentID, parentID) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) CreateIfNotExists(ctx context.Context, parentID *string, name string) (*models.Folder, error) {
	existing, err := r.GetByNameAndParent(ctx, name, parentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	f := &models.Folder{ParentID: parentID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := r.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fakeFolderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.folders)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// fakeAssetRepo is an in-memory AssetRepository for service tests.
type fakeAssetRepo struct {
	mu     sync.Mutex
	assets map[string]*models.Asset
	nextID int

	createCalls int
	deleteCalls int
	createErr   error // Forced error for Create
	listErr     error // Forced error for ListByFolder
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*models.Asset)}
}

func (r *fakeAssetRepo) add(fileName, filePath string, folderID *string) *models.Asset {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a := &models.Asset{
		ID:        fmt.Sprintf("asset-%d", r.nextID),
		FolderID:  folderID,
		FileName:  fileName,
		FilePath:  filePath,
		CreatedAt: time.Now(),
	}
	r.assets[a.ID] = a
	return a
}

func (r *fakeAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	asset.ID = fmt.Sprintf("asset-%d", r.nextID)
	cp := *asset
	r.assets[asset.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssetRepo) ListByFolder(ctx context.Context, folderID *string) ([]models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Asset
	for _, a := range r.assets {
		if sameParent(a.FolderID, folderID) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if _, ok := r.assets[id]; !ok {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	delete(r.assets, id)
	return nil
}

func (r *fakeAssetRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.assets)
}

// fakeBlobStore records uploads and removals in memory.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string

	// uploadErr forces every Upload to fail; removeErrFor forces Remove to
	// fail on specific keys.
	uploadErr    error
	removeErrFor map[string]error

	// gate, when set, blocks the next Upload until the channel is closed and
	// signals started first. Used to hold an item mid-upload.
	gate    chan struct{}
	started chan struct{}
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	gate := s.gate
	s.gate = nil
	s.mu.Unlock()

	if gate != nil {
		s.started <- struct{}{}
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return s.uploadErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = cp
	return nil
}

func (s *fakeBlobStore) Remove(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if err := s.removeErrFor[k]; err != nil {
			return err
		}
		delete(s.objects, k)
		s.removed = append(s.removed, k)
	}
	return nil
}

func (s *fakeBlobStore) PublicURL(key string) string {
	return "http://cdn.test/" + key
}

func (s *fakeBlobStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
