package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/news-portal-api/internal/container"
	handlers "github.com/oksasatya/news-portal-api/internal/interface/http"
	"github.com/oksasatya/news-portal-api/internal/interface/middleware"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// AuthModule wires login and password change.
// Public: POST /api/login
// Protected: POST /api/change-password
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.Scoped("login", middleware.KeyByIP()), nil) // 10 req/min per IP
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.Scoped("password", middleware.KeyByUserID()), nil))
	{
		auth.POST("/change-password", m.Handler.ChangePassword)
	}
}
