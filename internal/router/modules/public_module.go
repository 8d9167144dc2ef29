package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/news-portal-api/internal/container"
	handlers "github.com/oksasatya/news-portal-api/internal/interface/http"
	"github.com/oksasatya/news-portal-api/internal/interface/middleware"
)

// PublicModule wires the reader facing endpoints, rate-limited per IP.
type PublicModule struct {
	Handler *handlers.PublicHandler
}

func NewPublicModule(h *handlers.PublicHandler) *PublicModule {
	return &PublicModule{Handler: h}
}

func (m *PublicModule) Register(rg *gin.RouterGroup) {
	pub := rg.Group("/")
	pub.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.Scoped("public", middleware.KeyByIP()), middleware.AllowPrivateIP()))
	{
		pub.GET("/all/news", m.Handler.ByCategory)
		pub.GET("/category/all", m.Handler.CategorySummary)
		pub.GET("/news/details/:slug", m.Handler.Detail)
		pub.GET("/category/news/:category", m.Handler.CategoryNews)
		pub.GET("/popular/news", m.Handler.Popular)
		pub.GET("/latest/news", m.Handler.Latest)
		pub.GET("/recent/news", m.Handler.Recent)
		pub.GET("/images/news", m.Handler.Images)
		pub.GET("/search/news", m.Handler.Search)
		pub.GET("/news-statistics", m.Handler.Statistics)
	}
}
