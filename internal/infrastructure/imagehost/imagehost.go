// Package imagehost stores uploaded images in object storage and serves them by public URL.
package imagehost

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// objectKey names a new object as folder/<public id><ext>.
func objectKey(folder, filename string) (key, publicID string) {
	publicID = uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, publicID+ext), publicID
}

// objectPrefix matches the object stored for publicID regardless of its extension.
func objectPrefix(folder, publicID string) string {
	return path.Join(folder, publicID)
}

// matchesPublicID reports whether key is exactly the object for prefix, not merely one sharing it.
func matchesPublicID(key, prefix string) bool {
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	rest := key[len(prefix):]
	return rest == "" || (strings.HasPrefix(rest, ".") && !strings.Contains(rest, "/"))
}
