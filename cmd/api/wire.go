//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	"github.com/moraisLuismNet/recordstore/internal/infrastructure/config"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/mysql"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/redis"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/handler"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/middleware"
	"github.com/moraisLuismNet/recordstore/pkg/jwt"
	"github.com/moraisLuismNet/recordstore/pkg/response"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewRecordRepository,
	mysql.NewGroupRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewUserRepository,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	provideEnvelope,
	handler.NewRecordHandler,
	handler.NewGroupHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewUserHandler,
)

// provideJWTManager 从配置创建JWT管理器
// 教学要点：Wire无法自动从Config提取字段参数，需要手动Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpire)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideEnvelope 从配置提取集合响应形态
func provideEnvelope(cfg *config.Config) response.ListEnvelope {
	return response.ListEnvelope(cfg.Server.Envelope)
}

// provideGinEngine 创建并配置Gin引擎（路由注册与main.go一致）
func provideGinEngine(
	cfg *config.Config,
	recordHandler *handler.RecordHandler,
	groupHandler *handler.GroupHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	registerRoutes(r, recordHandler, groupHandler, cartHandler, orderHandler, userHandler, authMiddleware)
	return r
}

// InitializeApp 初始化整个应用
//
// wire.Build告诉Wire需要哪些Provider来构建*gin.Engine，
// Wire会在编译期分析依赖关系并按正确顺序生成初始化代码。
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
