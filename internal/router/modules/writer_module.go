package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/news-portal-api/internal/container"
	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	handlers "github.com/oksasatya/news-portal-api/internal/interface/http"
	"github.com/oksasatya/news-portal-api/internal/interface/middleware"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// WriterModule wires writer management (admin) and profiles (admin or writer).
type WriterModule struct {
	Writers  *handlers.WriterHandler
	Profiles *handlers.ProfileHandler
	JWT      *helpers.JWTManager
}

func NewWriterModule(w *handlers.WriterHandler, p *handlers.ProfileHandler, jwt *helpers.JWTManager) *WriterModule {
	return &WriterModule{Writers: w, Profiles: p, JWT: jwt}
}

func (m *WriterModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.Scoped("writers", middleware.KeyByUserID()), nil))

	admin := auth.Group("/", middleware.RequireRoles(entity.RoleAdmin))
	{
		admin.POST("/writer/add", m.Writers.Add)
		admin.GET("/news/writers", m.Writers.List)
		admin.GET("/news/writer/:id", m.Writers.Get)
		admin.PUT("/update/writer/:id", m.Writers.Update)
		admin.DELETE("/delete/writer/:id", m.Writers.Delete)
	}

	staff := auth.Group("/", middleware.RequireRoles(entity.RoleAdmin, entity.RoleWriter))
	{
		staff.GET("/profile/:id", m.Profiles.Get)
		staff.PUT("/update-profile/:id", m.Profiles.Update)
	}
}
