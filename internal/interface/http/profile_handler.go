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

type ProfileHandler struct {
	Accounts *application.AccountService
	Logger   *logrus.Logger
}

func NewProfileHandler(accounts *application.AccountService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Accounts: accounts, Logger: logger}
}

type updateProfileForm struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required,email"`
}

// Get GET /api/profile/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	u, err := h.Accounts.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

// Update PUT /api/update-profile/:id (multipart: name, email, optional image)
func (h *ProfileHandler) Update(c *gin.Context) {
	img, opened, err := formImage(c, "image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}
	defer opened.Close()

	var form updateProfileForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Accounts.UpdateProfile(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), application.UpdateProfileInput{
		Name:  form.Name,
		Email: form.Email,
		Image: img,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated successfully", nil)
}
