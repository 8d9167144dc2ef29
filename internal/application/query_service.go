package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	repo "github.com/oksasatya/news-portal-api/internal/domain/repository"
)

const (
	cacheKeyByCategory      = "news:by-category"
	cacheKeyCategorySummary = "news:category-summary"

	perCategoryLimit = 5
	relatedLimit     = 4
	popularLimit     = 4
	latestLimit      = 5
	recentSkip       = 6
	recentLimit      = 5
	sampleImages     = 9
	searchLimit      = 50
)

// QueryService serves the read side of the portal.
type QueryService struct {
	Articles   repo.ArticleRepository
	Identities repo.IdentityRepository
	Logger     *logrus.Logger

	// Optional collaborators; nil disables them.
	Index    ArticleIndex
	Cache    Cache
	CacheTTL time.Duration
}

func NewQueryService(articles repo.ArticleRepository, identities repo.IdentityRepository, logger *logrus.Logger) *QueryService {
	return &QueryService{Articles: articles, Identities: identities, Logger: logger, CacheTTL: time.Minute}
}

// ListForDashboard returns every article for admins and the caller's own articles otherwise.
func (s *QueryService) ListForDashboard(ctx context.Context, caller Caller) ([]entity.Article, error) {
	f := repo.ArticleFilter{Order: repo.OrderNewest}
	if !caller.IsAdmin() {
		if caller.ID == "" {
			return nil, ErrUnauthorized
		}
		f.WriterID = caller.ID
	}
	return s.list(ctx, "list dashboard news", f)
}

// GetByCategory groups active articles by category, newest first, at most five per group.
func (s *QueryService) GetByCategory(ctx context.Context) (map[string][]entity.Article, error) {
	return cached(ctx, s, cacheKeyByCategory, func(ctx context.Context) (map[string][]entity.Article, error) {
		rows, err := s.Articles.LatestPerCategory(ctx, entity.StatusActive, perCategoryLimit)
		if err != nil {
			return nil, internalErr("news by category", err)
		}
		out := make(map[string][]entity.Article)
		for _, a := range rows {
			if len(out[a.Category]) < perCategoryLimit {
				out[a.Category] = append(out[a.Category], a)
			}
		}
		return out, nil
	})
}

// GetCategorySummary counts articles of every status per category.
func (s *QueryService) GetCategorySummary(ctx context.Context) (map[string]int64, error) {
	return cached(ctx, s, cacheKeyCategorySummary, func(ctx context.Context) (map[string]int64, error) {
		rows, err := s.Articles.CountByCategory(ctx)
		if err != nil {
			return nil, internalErr("count by category", err)
		}
		out := make(map[string]int64, len(rows))
		for _, r := range rows {
			out[r.Category] = r.Count
		}
		return out, nil
	})
}

// GetDetail counts a view of the article with the slug and returns it with related articles.
func (s *QueryService) GetDetail(ctx context.Context, slug string) (*entity.Article, []entity.Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil, badRequest("slug is required")
	}
	a, err := s.Articles.IncrementViews(ctx, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, notFound("news")
		}
		return nil, nil, internalErr("increment views", err)
	}
	articleViewsCounter.Inc()
	related, err := s.list(ctx, "related news", repo.ArticleFilter{
		Category:    a.Category,
		Status:      entity.StatusActive,
		ExcludeSlug: slug,
		Order:       repo.OrderNewest,
		Limit:       relatedLimit,
	})
	if err != nil {
		return nil, nil, err
	}
	return a, related, nil
}

func (s *QueryService) GetCategoryNews(ctx context.Context, category string) ([]entity.Article, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, badRequest("category is required")
	}
	return s.list(ctx, "category news", repo.ArticleFilter{Category: category, Status: entity.StatusActive, Order: repo.OrderNewest})
}

func (s *QueryService) GetPopular(ctx context.Context) ([]entity.Article, error) {
	return s.list(ctx, "popular news", repo.ArticleFilter{Status: entity.StatusActive, Order: repo.OrderMostViewed, Limit: popularLimit})
}

func (s *QueryService) GetLatest(ctx context.Context) ([]entity.Article, error) {
	return s.list(ctx, "latest news", repo.ArticleFilter{Status: entity.StatusActive, Order: repo.OrderNewest, Limit: latestLimit})
}

func (s *QueryService) GetRecent(ctx context.Context) ([]entity.Article, error) {
	return s.list(ctx, "recent news", repo.ArticleFilter{Status: entity.StatusActive, Order: repo.OrderNewest, Skip: recentSkip, Limit: recentLimit})
}

// GetSampleImages returns the images of randomly chosen active articles.
func (s *QueryService) GetSampleImages(ctx context.Context) ([]entity.ArticleImage, error) {
	out, err := s.Articles.SampleImages(ctx, entity.StatusActive, sampleImages)
	if err != nil {
		return nil, internalErr("sample images", err)
	}
	return out, nil
}

// Search matches term case-insensitively against the titles of active articles.
// The search index is preferred when configured; the database answers otherwise.
func (s *QueryService) Search(ctx context.Context, term string) ([]entity.Article, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, badRequest("search value is required")
	}
	if s.Index != nil {
		out, err := s.Index.Search(ctx, term, searchLimit)
		if err == nil {
			return out, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("index search failed, falling back to database")
		}
	}
	return s.list(ctx, "search news", repo.ArticleFilter{Status: entity.StatusActive, TitleContains: term, Order: repo.OrderNewest, Limit: searchLimit})
}

// Statistics takes five independent counts for the dashboard.
func (s *QueryService) Statistics(ctx context.Context) (*entity.Statistics, error) {
	var st entity.Statistics
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, status entity.Status) {
		g.Go(func() error {
			n, err := s.Articles.Count(gctx, status)
			*dst = n
			return err
		})
	}
	count(&st.TotalNews, "")
	count(&st.PendingNews, entity.StatusPending)
	count(&st.ActiveNews, entity.StatusActive)
	count(&st.DeactiveNews, entity.StatusDeactive)
	g.Go(func() error {
		n, err := s.Identities.CountByRole(gctx, entity.RoleWriter)
		st.TotalWriters = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalErr("news statistics", err)
	}
	return &st, nil
}

func (s *QueryService) list(ctx context.Context, op string, f repo.ArticleFilter) ([]entity.Article, error) {
	out, err := s.Articles.List(ctx, f)
	if err != nil {
		return nil, internalErr(op, err)
	}
	return out, nil
}

// cached serves key from the cache when possible and stores freshly loaded values.
// Cache failures are logged and never fail the read.
func cached[T any](ctx context.Context, s *QueryService, key string, load func(context.Context) (T, error)) (T, error) {
	if s.Cache != nil {
		var v T
		hit, err := s.Cache.Get(ctx, key, &v)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		if hit {
			return v, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, v, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("cache write failed")
		}
	}
	return v, nil
}
