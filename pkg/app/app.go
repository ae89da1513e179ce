// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/muzicc/pkg/api"
	"github.com/yeisme/muzicc/pkg/configs"
	"github.com/yeisme/muzicc/pkg/internal/model"
	"github.com/yeisme/muzicc/pkg/internal/storage"
	"github.com/yeisme/muzicc/pkg/log"
	"github.com/yeisme/muzicc/pkg/metrics"
	"github.com/yeisme/muzicc/pkg/middleware"
)

// App 持有组装完成的 gin 引擎和配置.
type App struct {
	Engine *gin.Engine
	config *configs.AppConfig
}

// NewApp 初始化配置、存储与监控，组装中间件链和路由.
func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	// logger 初始化会按 server.debug 设置 gin 运行模式
	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	if config.DB.AutoMigrate {
		if err := manager.DB.AutoMigrate(&model.User{}, &model.Song{}); err != nil {
			fmt.Printf("Error migrating schema: %v\n", err)
			os.Exit(1)
		}
	}

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		middleware.AuthMiddleware(config.Auth),
	)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	api.RegisterGroup(engine)

	return &App{
		Engine: engine,
		config: config,
	}
}

// Run 启动 HTTP 服务.
func (a *App) Run() error {
	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}
