package service

import (
	"context"
	"errors"
	"testing"

	"ninescapeland/internal/domain"
)

func TestGetAssetDecoratesURLs(t *testing.T) {
	assets := newFakeAssetRepo()
	blobs := newFakeBlobStore()
	svc := NewAssetService(assets, blobs, testLogger())

	seeded := assets.add("pic.jpg", "folder-1/555_abc.jpg", nil)

	asset, err := svc.GetAsset(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if asset.URL != "http://cdn.test/folder-1/555_abc.jpg" {
		t.Errorf("unexpected URL: %s", asset.URL)
	}
	if asset.ThumbURL != "http://cdn.test/folder-1/thumb_555_abc.jpg" {
		t.Errorf("unexpected thumb URL: %s", asset.ThumbURL)
	}
}

func TestGetAssetNotFound(t *testing.T) {
	svc := NewAssetService(newFakeAssetRepo(), newFakeBlobStore(), testLogger())

	if _, err := svc.GetAsset(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAssetRemovesBlobsThenRow(t *testing.T) {
	assets := newFakeAssetRepo()
	blobs := newFakeBlobStore()
	svc := NewAssetService(assets, blobs, testLogger())
	ctx := context.Background()

	seeded := assets.add("pic.jpg", "f/111_x.jpg", nil)
	blobs.objects["f/111_x.jpg"] = []byte("main")
	blobs.objects["f/thumb_111_x.jpg"] = []byte("thumb")

	if err := svc.DeleteAsset(ctx, seeded.ID); err != nil {
		t.Fatalf("DeleteAsset failed: %v", err)
	}

	// Both the main blob and the convention thumbnail were targeted
	if len(blobs.removed) != 2 {
		t.Fatalf("expected 2 keys removed, got %v", blobs.removed)
	}
	if blobs.removed[0] != "f/111_x.jpg" || blobs.removed[1] != "f/thumb_111_x.jpg" {
		t.Errorf("unexpected removed keys: %v", blobs.removed)
	}

	if _, err := assets.GetByID(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("metadata row should be gone")
	}
}

func TestDeleteAssetMainBlobFailureKeepsRow(t *testing.T) {
	assets := newFakeAssetRepo()
	blobs := newFakeBlobStore()
	svc := NewAssetService(assets, blobs, testLogger())
	ctx := context.Background()

	seeded := assets.add("pic.jpg", "f/111_x.jpg", nil)
	blobs.objects["f/111_x.jpg"] = []byte("main")
	blobs.removeErrFor = map[string]error{"f/111_x.jpg": errors.New("store unreachable")}

	err := svc.DeleteAsset(ctx, seeded.ID)
	if err == nil {
		t.Fatal("expected error when main blob removal fails")
	}

	// The row survives so the failure is visible, not silently swallowed
	if _, err := assets.GetByID(ctx, seeded.ID); err != nil {
		t.Error("metadata row must survive a blob removal failure")
	}
	if assets.deleteCalls != 0 {
		t.Errorf("row deletion must not be attempted, got %d calls", assets.deleteCalls)
	}
	if _, ok := blobs.objects["f/111_x.jpg"]; !ok {
		t.Error("main blob must still exist when its removal failed")
	}
}

func TestDeleteAssetThumbFailureStillDeletesRow(t *testing.T) {
	assets := newFakeAssetRepo()
	blobs := newFakeBlobStore()
	svc := NewAssetService(assets, blobs, testLogger())
	ctx := context.Background()

	seeded := assets.add("pic.jpg", "f/111_x.jpg", nil)
	blobs.objects["f/111_x.jpg"] = []byte("main")
	blobs.objects["f/thumb_111_x.jpg"] = []byte("thumb")
	blobs.removeErrFor = map[string]error{"f/thumb_111_x.jpg": errors.New("store hiccup")}

	// Thumbnail removal is best-effort: once the main blob is gone the row
	// must go too, or it would point at a missing main blob
	if err := svc.DeleteAsset(ctx, seeded.ID); err != nil {
		t.Fatalf("DeleteAsset must succeed despite thumb removal failure: %v", err)
	}

	if _, ok := blobs.objects["f/111_x.jpg"]; ok {
		t.Error("main blob should be removed")
	}
	if _, err := assets.GetByID(ctx, seeded.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("metadata row must be deleted once the main blob is gone")
	}
	// The thumbnail blob is left behind; a leftover thumbnail is harmless
	if _, ok := blobs.objects["f/thumb_111_x.jpg"]; !ok {
		t.Error("failed thumbnail removal should leave the thumb blob in place")
	}
}

func TestDeleteAssetNotFound(t *testing.T) {
	svc := NewAssetService(newFakeAssetRepo(), newFakeBlobStore(), testLogger())

	if err := svc.DeleteAsset(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
