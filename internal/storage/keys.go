package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// thumbPrefix is the filename prefix for convention-addressed thumbnails.
// A thumbnail has no metadata row of its own; its key is always derivable
// from the main blob's key.
const thumbPrefix = "thumb_"

// NewBaseKey returns a fresh random+timestamp base name for one uploaded
// blob, without directory or extension.
func NewBaseKey() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), uuid.New().String())
}

// ObjectKey builds the object key for a main blob: the target folder id (or
// "root" for the root level) as directory, base key as filename.
func ObjectKey(folderID *string, baseKey, ext string) string {
	dir := "root"
	if folderID != nil && *folderID != "" {
		dir = *folderID
	}
	return path.Join(dir, baseKey+ext)
}

// ThumbKey derives the thumbnail key for a main blob key: same directory,
// filename prefixed with "thumb_". For "a/b/c.jpg" it returns
// "a/b/thumb_c.jpg".
func ThumbKey(mainKey string) string {
	dir, file := path.Split(mainKey)
	return dir + thumbPrefix + file
}

// IsThumbKey reports whether a key addresses a convention-derived thumbnail.
func IsThumbKey(key string) bool {
	_, file := path.Split(key)
	return strings.HasPrefix(file, thumbPrefix)
}
