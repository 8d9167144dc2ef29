package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/news-portal-api/config"
	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager

	imageHost    application.ImageHost
	rabbitPub    *helpers.RabbitPublisher
	articleIndex application.ArticleIndex
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetImageHost(h application.ImageHost)       { imageHost = h }
func GetImageHost() application.ImageHost        { return imageHost }
func SetRabbitPub(p *helpers.RabbitPublisher)    { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher     { return rabbitPub }
func SetArticleIndex(i application.ArticleIndex) { articleIndex = i }
func GetArticleIndex() application.ArticleIndex  { return articleIndex }
