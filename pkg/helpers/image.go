package helpers

import (
	"net/url"
	"path"
	"strings"
)

// PublicIDFromURL derives the public id of a hosted image: the last path
// segment of its URL without the extension.
func PublicIDFromURL(imageURL string) string {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
