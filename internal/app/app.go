package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"youth_hub_backend/internal/config"
	"youth_hub_backend/internal/controller"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/service"
	"youth_hub_backend/internal/token"
	"youth_hub_backend/pkg/configwatcher"
	"youth_hub_backend/pkg/database"
	"youth_hub_backend/pkg/logger"
	"youth_hub_backend/pkg/monitoring"
	"youth_hub_backend/pkg/security"
	"youth_hub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config     *config.Config
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client
	TokenStore token.Store
	services   *services

	configCallbacks []func(*config.Config)
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

type repositories struct {
	user         *repository.UserRepository
	session      *repository.SessionRepository
	resource     *repository.ResourceRepository
	message      *repository.MessageRepository
	progress     *repository.ProgressRepository
	notification *repository.NotificationRepository
	analytics    *repository.AnalyticsRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	session      *service.SessionService
	resource     *service.ResourceService
	message      *service.MessageService
	progress     *service.ProgressService
	notification *service.NotificationService
	analytics    *service.AnalyticsService
	storage      *service.StorageService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	session      *controller.SessionController
	resource     *controller.ResourceController
	message      *controller.MessageController
	progress     *controller.ProgressController
	notification *controller.NotificationController
	analytics    *controller.AnalyticsController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		session:      repository.NewSessionRepository(db),
		resource:     repository.NewResourceRepository(db),
		message:      repository.NewMessageRepository(db),
		progress:     repository.NewProgressRepository(db),
		notification: repository.NewNotificationRepository(db),
		analytics:    repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, a.TokenStore, cfg)
	s.user = service.NewUserService(repos.user)
	s.notification = service.NewNotificationService(repos.notification)
	s.session = service.NewSessionService(repos.session, repos.user, s.notification)
	s.resource = service.NewResourceService(repos.resource, s.storage, rdb)
	s.message = service.NewMessageService(repos.message, repos.user)
	s.progress = service.NewProgressService(repos.progress, repos.resource)
	s.analytics = service.NewAnalyticsService(repos.analytics)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		user:         controller.NewUserController(s.user),
		session:      controller.NewSessionController(s.session),
		resource:     controller.NewResourceController(s.resource),
		message:      controller.NewMessageController(s.message),
		progress:     controller.NewProgressController(s.progress),
		notification: controller.NewNotificationController(s.notification),
		analytics:    controller.NewAnalyticsController(s.analytics),
		health:       controller.NewHealthController(db, a.Redis),
	}
}

// initTokenStore 按配置选择令牌存储，redis 存储支持多实例共享会话
func (a *App) initTokenStore(cfg *config.Config, rdb *redis.Client) token.Store {
	if cfg.Auth.Store == "redis" && rdb != nil {
		logger.Log.Info("Using redis token store")
		return token.NewRedisStore(rdb, cfg.Auth.TokenTTL)
	}
	return token.NewMemoryStore(cfg.Auth.TokenTTL)
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 6000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	app.TokenStore = app.initTokenStore(cfg, rdb)

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("youth-hub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 热加载配置，当前仅通知注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("Configuration reloaded")
		for _, cb := range app.configCallbacks {
			cb(newCfg)
		}
	})

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 停掉内存令牌清理协程
	if ms, ok := a.TokenStore.(*token.MemoryStore); ok {
		ms.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
