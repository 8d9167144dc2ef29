package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/pkg/response"
)

// PublicHandler serves the reader facing site; no authentication.
type PublicHandler struct {
	Queries *application.QueryService
	Logger  *logrus.Logger
}

func NewPublicHandler(queries *application.QueryService, logger *logrus.Logger) *PublicHandler {
	return &PublicHandler{Queries: queries, Logger: logger}
}

// ByCategory GET /api/all/news
func (h *PublicHandler) ByCategory(c *gin.Context) {
	out, err := h.Queries.GetByCategory(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "news by category", nil)
}

// CategorySummary GET /api/category/all
func (h *PublicHandler) CategorySummary(c *gin.Context) {
	out, err := h.Queries.GetCategorySummary(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "categories", nil)
}

// Detail GET /api/news/details/:slug
func (h *PublicHandler) Detail(c *gin.Context) {
	a, related, err := h.Queries.GetDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"news": a, "related_news": related}, "news detail", nil)
}

// CategoryNews GET /api/category/news/:category
func (h *PublicHandler) CategoryNews(c *gin.Context) {
	h.list(c, "category news", func() (any, error) {
		return h.Queries.GetCategoryNews(c.Request.Context(), c.Param("category"))
	})
}

// Popular GET /api/popular/news
func (h *PublicHandler) Popular(c *gin.Context) {
	h.list(c, "popular news", func() (any, error) { return h.Queries.GetPopular(c.Request.Context()) })
}

// Latest GET /api/latest/news
func (h *PublicHandler) Latest(c *gin.Context) {
	h.list(c, "latest news", func() (any, error) { return h.Queries.GetLatest(c.Request.Context()) })
}

// Recent GET /api/recent/news
func (h *PublicHandler) Recent(c *gin.Context) {
	h.list(c, "recent news", func() (any, error) { return h.Queries.GetRecent(c.Request.Context()) })
}

// Images GET /api/images/news
func (h *PublicHandler) Images(c *gin.Context) {
	h.list(c, "news images", func() (any, error) { return h.Queries.GetSampleImages(c.Request.Context()) })
}

// Search GET /api/search/news?value=
func (h *PublicHandler) Search(c *gin.Context) {
	h.list(c, "search result", func() (any, error) {
		return h.Queries.Search(c.Request.Context(), c.Query("value"))
	})
}

// Statistics GET /api/news-statistics
func (h *PublicHandler) Statistics(c *gin.Context) {
	h.list(c, "news statistics", func() (any, error) { return h.Queries.Statistics(c.Request.Context()) })
}

func (h *PublicHandler) list(c *gin.Context, message string, load func() (any, error)) {
	out, err := load()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, message, nil)
}
