package repository

import (
	"context"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
)

// GalleryRepository defines the persistence operations for gallery images.
type GalleryRepository interface {
	// CreateMany inserts all images in one statement and fills their IDs and timestamps.
	CreateMany(ctx context.Context, images []entity.GalleryImage) error
	ListByWriter(ctx context.Context, writerID string) ([]entity.GalleryImage, error)
}
