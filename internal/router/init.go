package router

import (
	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/internal/container"
	"github.com/oksasatya/news-portal-api/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/news-portal-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/news-portal-api/internal/interface/http"
	"github.com/oksasatya/news-portal-api/internal/router/modules"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

const cachePrefix = "cache:"

type services struct {
	Accounts *application.AccountService
	Articles *application.ArticleService
	Queries  *application.QueryService
}

// buildServices wires repositories and the optional collaborators found in the container.
func buildServices() services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := pginfra.NewDB(container.GetPGPool())

	identities := pginfra.NewIdentityRepository(db)
	articleRepo := pginfra.NewArticleRepository(db)
	gallery := pginfra.NewGalleryRepository(db)
	images := container.GetImageHost()

	var notifier application.Notifier
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		notifier = notify.NewEmailNotifier(pub, cfg.AppName, cfg.DashboardURL)
	}
	var cache application.Cache
	if rdb := container.GetRedis(); rdb != nil {
		cache = helpers.NewRedisCache(rdb, cachePrefix)
	}
	index := container.GetArticleIndex()

	accounts := application.NewAccountService(identities, container.GetJWT(), images, notifier, logger)

	articles := application.NewArticleService(articleRepo, gallery, identities, images, logger)
	articles.Index = index
	articles.Cache = cache
	articles.Notify = notifier

	queries := application.NewQueryService(articleRepo, identities, logger)
	queries.Index = index
	queries.Cache = cache
	if cfg.CacheTTL > 0 {
		queries.CacheTTL = cfg.CacheTTL
	}

	return services{Accounts: accounts, Articles: articles, Queries: queries}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	svc := buildServices()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	cfg := container.GetConfig()

	r.Add(modules.NewDebugModule(cfg.DebugMetricsEnabled, container.GetPGPool(), container.GetRedis()))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Accounts, logger), jwt))
	r.Add(modules.NewWriterModule(
		handlers.NewWriterHandler(svc.Accounts, logger),
		handlers.NewProfileHandler(svc.Accounts, logger),
		jwt,
	))
	r.Add(modules.NewNewsModule(handlers.NewNewsHandler(svc.Articles, svc.Queries, logger), jwt))
	r.Add(modules.NewPublicModule(handlers.NewPublicHandler(svc.Queries, logger)))
}
