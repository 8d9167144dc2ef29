package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
)

type GalleryRepository struct {
	db DBTX
}

func NewGalleryRepository(db DBTX) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// CreateMany inserts all images with a single multi-row INSERT so either all or none are stored.
func (r *GalleryRepository) CreateMany(ctx context.Context, images []entity.GalleryImage) error {
	if len(images) == 0 {
		return nil
	}
	values := make([]string, 0, len(images))
	args := make([]any, 0, len(images)*2)
	for i, im := range images {
		values = append(values, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
		args = append(args, im.WriterID, im.URL)
	}
	rows, err := r.db.QueryContext(ctx,
		`INSERT INTO gallery_images (writer_id, url) VALUES `+strings.Join(values, ", ")+` RETURNING id, created_at`,
		args...)
	if err != nil {
		return mapErr("insert gallery images", err)
	}
	defer func() { _ = rows.Close() }()

	i := 0
	for rows.Next() {
		if i >= len(images) {
			break
		}
		if err := rows.Scan(&images[i].ID, &images[i].CreatedAt); err != nil {
			return mapErr("insert gallery images", err)
		}
		i++
	}
	return mapErr("insert gallery images", rows.Err())
}

func (r *GalleryRepository) ListByWriter(ctx context.Context, writerID string) ([]entity.GalleryImage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, writer_id, url, created_at
		FROM gallery_images
		WHERE writer_id = $1
		ORDER BY created_at DESC
	`, writerID)
	if err != nil {
		return nil, mapErr("list gallery images", err)
	}
	defer func() { _ = rows.Close() }()

	out := []entity.GalleryImage{}
	for rows.Next() {
		var im entity.GalleryImage
		if err := rows.Scan(&im.ID, &im.WriterID, &im.URL, &im.CreatedAt); err != nil {
			return nil, mapErr("list gallery images", err)
		}
		out = append(out, im)
	}
	return out, mapErr("list gallery images", rows.Err())
}
