package repository

import (
	"context"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
)

// ArticleOrder selects the sort order of an article listing
type ArticleOrder int

const (
	// OrderNewest sorts by creation time, newest first
	OrderNewest ArticleOrder = iota
	// OrderMostViewed sorts by view count, highest first
	OrderMostViewed
)

// ArticleFilter narrows an article listing. Zero values mean "no constraint".
type ArticleFilter struct {
	WriterID      string
	Status        entity.Status
	Category      string
	TitleContains string // case-insensitive literal substring
	ExcludeSlug   string
	Order         ArticleOrder
	Skip          int
	Limit         int
}

// ArticleRepository defines the persistence operations for articles.
type ArticleRepository interface {
	Create(ctx context.Context, a *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	// Update persists title, slug, description and image.
	Update(ctx context.Context, a *entity.Article) error
	UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Article, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ArticleFilter) ([]entity.Article, error)
	// IncrementViews atomically adds one view to the newest article with the slug.
	IncrementViews(ctx context.Context, slug string) (*entity.Article, error)
	// LatestPerCategory returns at most perCategory articles of each category,
	// ordered by category and then newest first.
	LatestPerCategory(ctx context.Context, status entity.Status, perCategory int) ([]entity.Article, error)
	CountByCategory(ctx context.Context) ([]entity.CategoryCount, error)
	// Count counts articles with the status, or all articles when status is empty.
	Count(ctx context.Context, status entity.Status) (int64, error)
	SampleImages(ctx context.Context, status entity.Status, n int) ([]entity.ArticleImage, error)
}
