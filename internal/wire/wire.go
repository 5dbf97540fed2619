//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"bookforge-api/internal/application/auth"
	"bookforge-api/internal/application/export"
	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/lifecycle"
	"bookforge-api/internal/application/settings"
	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/infrastructure/llm"
	"bookforge-api/internal/infrastructure/persistence/postgres"
	"bookforge-api/internal/infrastructure/persistence/redis"
	"bookforge-api/internal/interfaces/http/handler"
	"bookforge-api/internal/interfaces/http/middleware"
	"bookforge-api/internal/interfaces/http/router"
	"bookforge-api/pkg/utils"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	// PostgreSQL
	PgClient     *postgres.Client
	TxManager    *postgres.TxManager
	UserRepo     *postgres.UserRepository
	BookRepo     *postgres.BookRepository
	OutlineRepo  *postgres.OutlineRepository
	ChapterRepo  *postgres.ChapterRepository
	IdeaRepo     *postgres.IdeaRepository
	SettingsRepo *postgres.SettingsRepository

	// Redis
	RedisClient *redis.Client
	RateLimiter *redis.RateLimiter
}

// InitializeDataLayer 初始化数据层
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewBookRepository,
	postgres.NewOutlineRepository,
	postgres.NewChapterRepository,
	postgres.NewIdeaRepository,
	postgres.NewSettingsRepository,
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	// 接口绑定
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.BookRepository), new(*postgres.BookRepository)),
	wire.Bind(new(repository.OutlineRepository), new(*postgres.OutlineRepository)),
	wire.Bind(new(repository.ChapterRepository), new(*postgres.ChapterRepository)),
	wire.Bind(new(repository.IdeaRepository), new(*postgres.IdeaRepository)),
	wire.Bind(new(repository.SettingsRepository), new(*postgres.SettingsRepository)),
)

// ApplicationSet 应用服务提供者集合
var ApplicationSet = wire.NewSet(
	llm.NewEinoFactory,
	llm.NewTextGenerator,
	wire.Bind(new(generation.TextGenerator), new(*llm.TextGenerator)),
	generation.NewService,
	lifecycle.NewEngine,
	ProvideJWTManager,
	auth.NewService,
	settings.NewService,
	export.NewExporter,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewBookHandler,
	handler.NewIdeaHandler,
	handler.NewOutlineHandler,
	handler.NewChapterHandler,
	handler.NewSettingsHandler,
	handler.NewExportHandler,
	handler.NewHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideJWTManager 提供 JWT 管理器
func ProvideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
}
