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

type AuthHandler struct {
	Accounts *application.AccountService
	Logger   *logrus.Logger
}

func NewAuthHandler(accounts *application.AccountService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"user":       res.Identity,
	}, "login success", nil)
}

// ChangePassword POST /api/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	caller := middleware.CallerFrom(c)
	if err := h.Accounts.ChangePassword(c.Request.Context(), caller.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed successfully", nil)
}
