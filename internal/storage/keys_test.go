package storage

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	folderID := "f-123"

	tests := []struct {
		name     string
		folderID *string
		baseKey  string
		ext      string
		want     string
	}{
		{"root level", nil, "1700000000000_abc", ".jpg", "root/1700000000000_abc.jpg"},
		{"empty folder id treated as root", strPtr(""), "base", ".png", "root/base.png"},
		{"in folder", &folderID, "base", ".jpg", "f-123/base.jpg"},
		{"binary fallback extension", &folderID, "base", ".bin", "f-123/base.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectKey(tt.folderID, tt.baseKey, tt.ext); got != tt.want {
				t.Errorf("ObjectKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThumbKey(t *testing.T) {
	tests := []struct {
		mainKey string
		want    string
	}{
		{"a/b/c.jpg", "a/b/thumb_c.jpg"},
		{"root/1700_abc.jpg", "root/thumb_1700_abc.jpg"},
		{"flat.png", "thumb_flat.png"},
	}

	for _, tt := range tests {
		if got := ThumbKey(tt.mainKey); got != tt.want {
			t.Errorf("ThumbKey(%q) = %q, want %q", tt.mainKey, got, tt.want)
		}
	}
}

func TestIsThumbKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"root/thumb_abc.jpg", true},
		{"thumb_abc.jpg", true},
		{"root/abc.jpg", false},
		{"thumbnails/abc.jpg", false}, // Directory name must not count
	}

	for _, tt := range tests {
		if got := IsThumbKey(tt.key); got != tt.want {
			t.Errorf("IsThumbKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestThumbKeyRoundTrip(t *testing.T) {
	main := ObjectKey(strPtr("f-9"), NewBaseKey(), ".jpg")
	thumb := ThumbKey(main)

	if IsThumbKey(main) {
		t.Errorf("main key %q should not look like a thumbnail", main)
	}
	if !IsThumbKey(thumb) {
		t.Errorf("derived key %q should be a thumbnail key", thumb)
	}
}

func TestNewBaseKeyIsUnique(t *testing.T) {
	a := NewBaseKey()
	b := NewBaseKey()

	if a == b {
		t.Error("consecutive base keys must differ")
	}
	if !strings.Contains(a, "_") {
		t.Errorf("base key %q missing timestamp separator", a)
	}
	if strings.ContainsAny(a, "/ ") {
		t.Errorf("base key %q must not contain separators or spaces", a)
	}
}

func strPtr(s string) *string { return &s }
