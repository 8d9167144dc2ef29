package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	repo "github.com/oksasatya/news-portal-api/internal/domain/repository"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// ArticleService owns the article lifecycle and the writers' image galleries.
type ArticleService struct {
	Articles   repo.ArticleRepository
	Gallery    repo.GalleryRepository
	Identities repo.IdentityRepository
	Images     ImageHost
	Logger     *logrus.Logger

	// Optional collaborators; nil disables them.
	Index  ArticleIndex
	Cache  Cache
	Notify Notifier

	Sanitizer *bluemonday.Policy
	Now       func() time.Time
}

func NewArticleService(articles repo.ArticleRepository, gallery repo.GalleryRepository, identities repo.IdentityRepository, images ImageHost, logger *logrus.Logger) *ArticleService {
	return &ArticleService{
		Articles:   articles,
		Gallery:    gallery,
		Identities: identities,
		Images:     images,
		Logger:     logger,
		Sanitizer:  bluemonday.UGCPolicy(),
		Now:        time.Now,
	}
}

type ArticleInput struct {
	Title       string
	Description string
	Image       *ImageFile // required on create, optional on update
}

// CreateArticle stores a pending article authored by the caller.
func (s *ArticleService) CreateArticle(ctx context.Context, caller Caller, in ArticleInput) (*entity.Article, error) {
	if caller.ID == "" {
		return nil, ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, badRequest("title is required")
	}
	if in.Image == nil {
		return nil, badRequest("image is required")
	}
	url, err := s.Images.Upload(ctx, FolderNews, *in.Image)
	if err != nil {
		return nil, internalErr("upload news image", err)
	}
	a := &entity.Article{
		WriterID:    caller.ID,
		WriterName:  caller.Name,
		Title:       title,
		Slug:        entity.Slugify(title),
		Category:    caller.Category,
		Description: s.sanitize(in.Description),
		Date:        helpers.FormatDisplayDate(s.Now()),
		Image:       url,
		Status:      entity.StatusPending,
	}
	if err := s.Articles.Create(ctx, a); err != nil {
		s.discardImage(ctx, FolderNews, url)
		return nil, internalErr("create article", err)
	}
	articlesCreatedCounter.Inc()
	s.invalidate(ctx)
	return a, nil
}

// GetArticle loads an article for editing.
func (s *ArticleService) GetArticle(ctx context.Context, caller Caller, id string) (*entity.Article, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.canManage(a.WriterID) {
		return nil, ErrAccessDenied
	}
	return a, nil
}

// UpdateArticle rewrites title, slug and description and optionally replaces the image.
// A failure to delete the old image is logged and does not stop the update.
func (s *ArticleService) UpdateArticle(ctx context.Context, caller Caller, id string, in ArticleInput) (*entity.Article, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, badRequest("title is required")
	}
	a, err := s.GetArticle(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Image != nil {
		if a.Image != "" {
			if dErr := s.Images.Delete(ctx, FolderNews, helpers.PublicIDFromURL(a.Image)); dErr != nil && s.Logger != nil {
				s.Logger.WithError(dErr).WithField("article_id", a.ID).Warn("delete old news image failed")
			}
		}
		url, err := s.Images.Upload(ctx, FolderNews, *in.Image)
		if err != nil {
			return nil, internalErr("upload news image", err)
		}
		a.Image = url
	}
	a.Title = title
	a.Slug = entity.Slugify(title)
	a.Description = s.sanitize(in.Description)
	if err := s.Articles.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("news")
		}
		return nil, internalErr("update article", err)
	}
	s.syncIndex(ctx, *a)
	s.invalidate(ctx)
	return a, nil
}

// DeleteArticle removes the remote image first and then the record.
func (s *ArticleService) DeleteArticle(ctx context.Context, caller Caller, id string) error {
	a, err := s.GetArticle(ctx, caller, id)
	if err != nil {
		return err
	}
	if a.Image != "" {
		if err := s.Images.Delete(ctx, FolderNews, helpers.PublicIDFromURL(a.Image)); err != nil {
			return internalErr("delete news image", err)
		}
	}
	if err := s.Articles.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("news")
		}
		return internalErr("delete article", err)
	}
	if s.Index != nil {
		if iErr := s.Index.Remove(ctx, a.ID); iErr != nil && s.Logger != nil {
			s.Logger.WithError(iErr).WithField("article_id", a.ID).Warn("remove article from index failed")
		}
	}
	s.invalidate(ctx)
	return nil
}

// SetStatus overwrites the status of an article. Only admins may do this.
func (s *ArticleService) SetStatus(ctx context.Context, caller Caller, id, status string) (*entity.Article, error) {
	if !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}
	next, ok := entity.ParseStatus(status)
	if !ok {
		return nil, badRequest("status must be one of pending, active, deactive")
	}
	cur, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(cur.Status, next) {
		return nil, badRequest("status transition not allowed")
	}
	a, err := s.Articles.UpdateStatus(ctx, id, next)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("news")
		}
		return nil, internalErr("update article status", err)
	}
	s.syncIndex(ctx, *a)
	s.invalidate(ctx)
	s.notifyStatus(ctx, *a)
	return a, nil
}

// AddGalleryImages uploads all images concurrently and persists them only if every
// upload succeeded. On failure the images uploaded so far are deleted again.
func (s *ArticleService) AddGalleryImages(ctx context.Context, caller Caller, files []ImageFile) ([]entity.GalleryImage, error) {
	if caller.ID == "" {
		return nil, ErrUnauthorized
	}
	if len(files) == 0 {
		return nil, badRequest("at least one image is required")
	}
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i := range files {
		i := i
		g.Go(func() error {
			url, err := s.Images.Upload(gctx, FolderNews, files[i])
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.discardImages(ctx, urls)
		return nil, internalErr("upload gallery images", err)
	}

	images := make([]entity.GalleryImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, entity.GalleryImage{WriterID: caller.ID, URL: url})
	}
	if err := s.Gallery.CreateMany(ctx, images); err != nil {
		s.discardImages(ctx, urls)
		return nil, internalErr("save gallery images", err)
	}
	galleryUploadsCounter.Add(float64(len(images)))
	return images, nil
}

func (s *ArticleService) ListGallery(ctx context.Context, caller Caller) ([]entity.GalleryImage, error) {
	images, err := s.Gallery.ListByWriter(ctx, caller.ID)
	if err != nil {
		return nil, internalErr("list gallery", err)
	}
	return images, nil
}

func (s *ArticleService) get(ctx context.Context, id string) (*entity.Article, error) {
	a, err := s.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("news")
		}
		return nil, internalErr("get article", err)
	}
	return a, nil
}

func (s *ArticleService) sanitize(html string) string {
	if s.Sanitizer == nil {
		return html
	}
	return s.Sanitizer.Sanitize(html)
}

// syncIndex keeps only active articles searchable.
func (s *ArticleService) syncIndex(ctx context.Context, a entity.Article) {
	if s.Index == nil {
		return
	}
	var err error
	if a.Status == entity.StatusActive {
		err = s.Index.Index(ctx, a)
	} else {
		err = s.Index.Remove(ctx, a.ID)
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("article_id", a.ID).Warn("sync article index failed")
	}
}

func (s *ArticleService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, cacheKeyByCategory, cacheKeyCategorySummary); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("invalidate news cache failed")
	}
}

func (s *ArticleService) notifyStatus(ctx context.Context, a entity.Article) {
	if s.Notify == nil || s.Identities == nil {
		return
	}
	author, err := s.Identities.GetByID(ctx, a.WriterID)
	if err == nil {
		err = s.Notify.ArticleStatusChanged(ctx, *author, a)
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("article_id", a.ID).Warn("status notification failed")
	}
}

func (s *ArticleService) discardImage(ctx context.Context, folder, url string) {
	if err := s.Images.Delete(ctx, folder, helpers.PublicIDFromURL(url)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("url", url).Warn("discard uploaded image failed")
	}
}

func (s *ArticleService) discardImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url != "" {
			s.discardImage(ctx, FolderNews, url)
		}
	}
}
