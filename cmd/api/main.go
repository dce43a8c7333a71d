package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/moraisLuismNet/recordstore/internal/infrastructure/config"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/mysql"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/persistence/redis"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/handler"
	"github.com/moraisLuismNet/recordstore/internal/interface/http/middleware"
	"github.com/moraisLuismNet/recordstore/pkg/jwt"
	"github.com/moraisLuismNet/recordstore/pkg/response"
)

// main 开发后端入口
// 说明：手动依赖注入（wire.go提供等价的编译期注入配置）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 集合形态: %s\n", cfg.Server.Envelope)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 3. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 4. 依赖注入（手动组装）
	// 基础设施层
	recordRepo := mysql.NewRecordRepository(db)
	groupRepo := mysql.NewGroupRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db, cartRepo)
	userRepo := mysql.NewUserRepository(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpire)

	// 接口层
	envelope := response.ListEnvelope(cfg.Server.Envelope)
	recordHandler := handler.NewRecordHandler(recordRepo, envelope)
	groupHandler := handler.NewGroupHandler(groupRepo, recordRepo, envelope)
	cartHandler := handler.NewCartHandler(cartRepo, orderRepo)
	orderHandler := handler.NewOrderHandler(orderRepo, envelope)
	userHandler := handler.NewUserHandler(userRepo, sessionStore, jwtManager)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 5. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// 6. 注册路由
	registerRoutes(r, recordHandler, groupHandler, cartHandler, orderHandler, userHandler, authMiddleware)

	// 7. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	recordHandler *handler.RecordHandler,
	groupHandler *handler.GroupHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong", "status": "healthy"})
	})

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块（公开接口）
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 目录模块（读公开，写需要登录）
		records := v1.Group("/records")
		{
			records.GET("", recordHandler.List)
			records.GET("/:id", recordHandler.Get)
			records.POST("", authMiddleware.RequireAuth(), recordHandler.Create)
			records.PUT("/:id", authMiddleware.RequireAuth(), recordHandler.Update)
			records.DELETE("/:id", authMiddleware.RequireAuth(), recordHandler.Delete)
			records.PUT("/:id/updateStock/:delta", authMiddleware.RequireAuth(), recordHandler.UpdateStock)
		}

		groups := v1.Group("/groups")
		{
			groups.GET("", groupHandler.List)
			groups.GET("/:id", groupHandler.Get)
			groups.GET("/recordsByGroup/:id", groupHandler.RecordsByGroup)
		}

		// 购物车模块（需要登录，只能操作本人）
		carts := v1.Group("/cart")
		carts.Use(authMiddleware.RequireAuth())
		{
			carts.POST("/add/:email", cartHandler.Add)
			carts.POST("/remove/:email", cartHandler.Remove)
			carts.POST("/checkout/:email", cartHandler.Checkout)
			carts.GET("/:email", cartHandler.Get)
		}

		// 订单模块（需要登录，只能查本人）
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.GET("", orderHandler.ListByEmail)
		}
	}
}
