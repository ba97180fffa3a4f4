package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ninescapeland/internal/config"
	"ninescapeland/internal/domain"
)

func TestResolveCreatesHierarchy(t *testing.T) {
	repo := newFakeFolderRepo()
	resolver := NewPathResolver(repo, &fakeTxManager{})
	ctx := context.Background()

	id, err := resolver.Resolve(ctx, []string{"a", "b", "c"}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id == nil {
		t.Fatal("expected non-nil folder id for a/b/c")
	}
	if repo.count() != 3 {
		t.Errorf("expected 3 folders created, got %d", repo.count())
	}

	// Resolving the same path again must reuse the existing folders
	id2, err := resolver.Resolve(ctx, []string{"a", "b", "c"}, nil)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if *id != *id2 {
		t.Errorf("expected same folder id on repeat resolution, got %s and %s", *id, *id2)
	}
	if repo.count() != 3 {
		t.Errorf("repeat resolution created folders: have %d, want 3", repo.count())
	}
}

func TestResolveSkipsEmptySegments(t *testing.T) {
	repo := newFakeFolderRepo()
	resolver := NewPathResolver(repo, &fakeTxManager{})

	id, err := resolver.Resolve(context.Background(), []string{"", "docs", ""}, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id == nil {
		t.Fatal("expected non-nil folder id")
	}
	if repo.count() != 1 {
		t.Errorf("expected 1 folder, got %d", repo.count())
	}
}

func TestResolveEmptyPathReturnsBase(t *testing.T) {
	repo := newFakeFolderRepo()
	resolver := NewPathResolver(repo, &fakeTxManager{})

	base := repo.add("base", nil)
	id, err := resolver.ResolvePath(context.Background(), "/", &base.ID)
	if err != nil {
		t.Fatalf("ResolvePath failed: %v", err)
	}
	if id == nil || *id != base.ID {
		t.Errorf("expected base folder id %s back, got %v", base.ID, id)
	}
}

func TestResolveRejectsOverlongName(t *testing.T) {
	repo := newFakeFolderRepo()
	resolver := NewPathResolver(repo, &fakeTxManager{})

	long := strings.Repeat("x", config.MaxFolderNameLength+1)
	_, err := resolver.Resolve(context.Background(), []string{long}, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for overlong name, got %v", err)
	}
	if repo.count() != 0 {
		t.Errorf("no folders should be created on validation failure, got %d", repo.count())
	}
}

func TestBatchResolverMemoizes(t *testing.T) {
	repo := newFakeFolderRepo()
	resolver := NewPathResolver(repo, &fakeTxManager{})
	batch := NewBatchResolver(resolver, nil)
	ctx := context.Background()

	first, err := batch.Resolve(ctx, []string{"docs"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, err := batch.Resolve(ctx, []string{"docs"})
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}

	if *first != *second {
		t.Errorf("cache returned a different folder: %s vs %s", *first, *second)
	}
	if repo.createCalls != 1 {
		t.Errorf("expected exactly 1 folder creation, got %d", repo.createCalls)
	}

	// Empty segments resolve to the batch base without touching the repo
	base, err := batch.Resolve(ctx, nil)
	if err != nil {
		t.Fatalf("Resolve of empty segments failed: %v", err)
	}
	if base != nil {
		t.Errorf("expected nil (root) for empty segments, got %v", *base)
	}
}

func TestBatchResolverRootedAtFolder(t *testing.T) {
	repo := newFakeFolderRepo()
	resolver := NewPathResolver(repo, &fakeTxManager{})

	base := repo.add("uploads", nil)
	batch := NewBatchResolver(resolver, &base.ID)

	id, err := batch.Resolve(context.Background(), []string{"sub"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	folder, err := repo.GetByID(context.Background(), *id)
	if err != nil {
		t.Fatalf("created folder not found: %v", err)
	}
	if folder.ParentID == nil || *folder.ParentID != base.ID {
		t.Errorf("new folder should hang under the batch base, got parent %v", folder.ParentID)
	}
}
