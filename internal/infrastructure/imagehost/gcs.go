package imagehost

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// GCS keeps images in a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
}

func NewGCS(client *storage.Client, bucket string) (*GCS, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("gcs image host requires a client and a bucket")
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Upload(ctx context.Context, folder string, img application.ImageFile) (string, error) {
	key, _ := objectKey(folder, img.Filename)
	url, err := helpers.UploadObject(ctx, g.client, g.bucket, key, img.ContentType, img.Body)
	if err != nil {
		return "", fmt.Errorf("gcs upload %s: %w", key, err)
	}
	return url, nil
}

// Delete removes the object stored for publicID in folder, whatever its extension.
func (g *GCS) Delete(ctx context.Context, folder, publicID string) error {
	prefix := objectPrefix(folder, publicID)
	names, err := helpers.ListObjectNames(ctx, g.client, g.bucket, prefix)
	if err != nil {
		return fmt.Errorf("gcs: %w", err)
	}
	for _, name := range names {
		if !matchesPublicID(name, prefix) {
			continue
		}
		if err := helpers.DeleteObject(ctx, g.client, g.bucket, name); err != nil {
			return fmt.Errorf("gcs delete %s: %w", name, err)
		}
	}
	return nil
}

var _ application.ImageHost = (*GCS)(nil)
