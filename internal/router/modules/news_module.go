package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/news-portal-api/internal/container"
	handlers "github.com/oksasatya/news-portal-api/internal/interface/http"
	"github.com/oksasatya/news-portal-api/internal/interface/middleware"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// NewsModule wires the authenticated dashboard. Ownership and the admin-only
// status change are enforced by the services.
type NewsModule struct {
	Handler *handlers.NewsHandler
	JWT     *helpers.JWTManager
}

func NewNewsModule(h *handlers.NewsHandler, jwt *helpers.JWTManager) *NewsModule {
	return &NewsModule{Handler: h, JWT: jwt}
}

func (m *NewsModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.Scoped("news", middleware.KeyByUserID()), nil))
	{
		auth.POST("/news/add", m.Handler.Add)
		auth.GET("/news", m.Handler.List)
		auth.GET("/edit/news/:newsId", m.Handler.Edit)
		auth.PUT("/news/update/:newsId", m.Handler.Update)
		auth.DELETE("/news/delete/:newsId", m.Handler.Delete)
		auth.PUT("/news/status-update/:newsId", m.Handler.UpdateStatus)
		auth.GET("/images", m.Handler.Images)
		auth.POST("/images/add", m.Handler.AddImages)
	}
}
