package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/internal/interface/middleware"
	"github.com/oksasatya/news-portal-api/pkg/response"
	"github.com/oksasatya/news-portal-api/pkg/validation"
)

// NewsHandler serves the authenticated dashboard: articles, status changes and the gallery.
type NewsHandler struct {
	Articles *application.ArticleService
	Queries  *application.QueryService
	Logger   *logrus.Logger
}

func NewNewsHandler(articles *application.ArticleService, queries *application.QueryService, logger *logrus.Logger) *NewsHandler {
	return &NewsHandler{Articles: articles, Queries: queries, Logger: logger}
}

type newsForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Add POST /api/news/add (multipart: title, description, image)
func (h *NewsHandler) Add(c *gin.Context) {
	img, opened, err := formImage(c, "image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	defer opened.Close()

	var form newsForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Articles.CreateArticle(c.Request.Context(), middleware.CallerFrom(c), application.ArticleInput{
		Title:       form.Title,
		Description: form.Description,
		Image:       img,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, a, "news added successfully", nil)
}

// List GET /api/news
func (h *NewsHandler) List(c *gin.Context) {
	out, err := h.Queries.ListForDashboard(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "news", nil)
}

// Edit GET /api/edit/news/:newsId
func (h *NewsHandler) Edit(c *gin.Context) {
	a, err := h.Articles.GetArticle(c.Request.Context(), middleware.CallerFrom(c), c.Param("newsId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "news", nil)
}

// Update PUT /api/news/update/:newsId (multipart: title, description, optional image)
func (h *NewsHandler) Update(c *gin.Context) {
	img, opened, err := formImage(c, "image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	defer opened.Close()

	var form newsForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Articles.UpdateArticle(c.Request.Context(), middleware.CallerFrom(c), c.Param("newsId"), application.ArticleInput{
		Title:       form.Title,
		Description: form.Description,
		Image:       img,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "news updated successfully", nil)
}

// Delete DELETE /api/news/delete/:newsId
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.Articles.DeleteArticle(c.Request.Context(), middleware.CallerFrom(c), c.Param("newsId")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "news deleted successfully", nil)
}

// UpdateStatus PUT /api/news/status-update/:newsId
func (h *NewsHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Articles.SetStatus(c.Request.Context(), middleware.CallerFrom(c), c.Param("newsId"), req.Status)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "news status updated successfully", nil)
}

// AddImages POST /api/images/add (multipart: images, one or many)
func (h *NewsHandler) AddImages(c *gin.Context) {
	files, opened, err := formImages(c, "images")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	defer opened.Close()

	images, err := h.Articles.AddGalleryImages(c.Request.Context(), middleware.CallerFrom(c), files)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, images, "images uploaded successfully", nil)
}

// Images GET /api/images
func (h *NewsHandler) Images(c *gin.Context) {
	images, err := h.Articles.ListGallery(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, images, "images", nil)
}
