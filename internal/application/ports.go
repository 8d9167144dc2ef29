package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// Image host folders
const (
	FolderNews    = "news_images"
	FolderProfile = "profile_images"
)

// ImageFile is one uploaded image, already detached from the transport
type ImageFile struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ImageHost stores images and serves them by URL
type ImageHost interface {
	Upload(ctx context.Context, folder string, img ImageFile) (string, error)
	Delete(ctx context.Context, folder, publicID string) error
}

// Cache keeps JSON encodable read models for a limited time
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ArticleIndex is a full text index over active articles
type ArticleIndex interface {
	Index(ctx context.Context, a entity.Article) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, term string, limit int) ([]entity.Article, error)
	Reindex(ctx context.Context, articles []entity.Article) error
}

// Notifier informs people about account and article events
type Notifier interface {
	WriterCreated(ctx context.Context, w entity.Identity) error
	ArticleStatusChanged(ctx context.Context, author entity.Identity, a entity.Article) error
}

// Caller is the authenticated identity on whose behalf an operation runs
type Caller struct {
	ID       string
	Name     string
	Category string
	Role     entity.Role
}

func CallerFromClaims(c *helpers.Claims) Caller {
	if c == nil {
		return Caller{}
	}
	return Caller{ID: c.ID, Name: c.Name, Category: c.Category, Role: entity.Role(c.Role)}
}

func (c Caller) IsAdmin() bool { return c.Role == entity.RoleAdmin }

// canManage reports whether the caller may change content owned by ownerID
func (c Caller) canManage(ownerID string) bool {
	return c.IsAdmin() || (c.ID != "" && c.ID == ownerID)
}
