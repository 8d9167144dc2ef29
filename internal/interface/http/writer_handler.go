package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/pkg/response"
	"github.com/oksasatya/news-portal-api/pkg/validation"
)

// WriterHandler serves the admin's writer management screens
type WriterHandler struct {
	Accounts *application.AccountService
	Logger   *logrus.Logger
}

func NewWriterHandler(accounts *application.AccountService, logger *logrus.Logger) *WriterHandler {
	return &WriterHandler{Accounts: accounts, Logger: logger}
}

type addWriterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Category string `json:"category" binding:"required"`
}

type updateWriterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Category string `json:"category"`
}

// Add POST /api/writer/add
func (h *WriterHandler) Add(c *gin.Context) {
	var req addWriterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	w, err := h.Accounts.CreateWriter(c.Request.Context(), application.CreateWriterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Category: req.Category,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, w, "writer added successfully", nil)
}

// List GET /api/news/writers
func (h *WriterHandler) List(c *gin.Context) {
	writers, err := h.Accounts.ListWriters(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, writers, "writers", nil)
}

// Get GET /api/news/writer/:id
func (h *WriterHandler) Get(c *gin.Context) {
	w, err := h.Accounts.GetWriter(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, w, "writer", nil)
}

// Update PUT /api/update/writer/:id
func (h *WriterHandler) Update(c *gin.Context) {
	var req updateWriterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	w, err := h.Accounts.UpdateWriter(c.Request.Context(), c.Param("id"), application.UpdateWriterInput{
		Name:     req.Name,
		Email:    req.Email,
		Category: req.Category,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, w, "writer updated successfully", nil)
}

// Delete DELETE /api/delete/writer/:id
func (h *WriterHandler) Delete(c *gin.Context) {
	if err := h.Accounts.DeleteWriter(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "writer deleted successfully", nil)
}
