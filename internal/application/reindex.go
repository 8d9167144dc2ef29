package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	repo "github.com/oksasatya/news-portal-api/internal/domain/repository"
)

// ReindexJob rebuilds the search index from the active articles in the database.
type ReindexJob struct {
	Articles repo.ArticleRepository
	Index    ArticleIndex
	Logger   *logrus.Logger
}

func (j *ReindexJob) Run(ctx context.Context) error {
	if j.Index == nil {
		return errors.New("reindex: no article index configured")
	}
	start := time.Now()
	articles, err := j.Articles.List(ctx, repo.ArticleFilter{Status: entity.StatusActive, Order: repo.OrderNewest})
	if err != nil {
		return internalErr("reindex list articles", err)
	}
	if err := j.Index.Reindex(ctx, articles); err != nil {
		return internalErr("reindex", err)
	}
	if j.Logger != nil {
		j.Logger.WithFields(logrus.Fields{
			"articles": len(articles),
			"took":     time.Since(start).String(),
		}).Info("article index rebuilt")
	}
	return nil
}
