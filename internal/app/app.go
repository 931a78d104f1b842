package app

import (
	"class_tracker/internal/config"
	"class_tracker/internal/controller"
	"class_tracker/internal/repository"
	"class_tracker/internal/service"
	"class_tracker/pkg/configwatcher"
	"class_tracker/pkg/database"
	"class_tracker/pkg/logger"
	"class_tracker/pkg/monitoring"
	"class_tracker/pkg/security"
	"class_tracker/pkg/tracing"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services        *services
	repos           *repositories
	loginLimiter    *security.Limiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	mu              sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

type repositories struct {
	user      *repository.UserRepository
	session   *repository.SessionRepository
	class     *repository.ClassRepository
	student   *repository.StudentRepository
	homework  *repository.HomeworkRepository
	comment   *repository.CommentRepository
	dictation *repository.DictationRepository
	spelling  *repository.SpellingRepository
	grammar   *repository.GrammarRepository
	essay     *repository.EssayRepository
	todo      *repository.TodoRepository
	admin     *repository.AdminRepository
	report    *repository.ReportRepository
}

type services struct {
	ai        *service.AIService
	storage   *service.StorageService
	auth      *service.AuthService
	user      *service.UserService
	class     *service.ClassService
	homework  *service.HomeworkService
	comment   *service.CommentService
	dictation *service.DictationService
	spelling  *service.SpellingService
	grammar   *service.GrammarService
	essay     *service.EssayService
	todo      *service.TodoService
	admin     *service.AdminService
	report    *service.ReportService
	seed      *service.SeedService
}

type controllers struct {
	auth      *controller.AuthController
	class     *controller.ClassController
	homework  *controller.HomeworkController
	comment   *controller.CommentController
	dictation *controller.DictationController
	spelling  *controller.SpellingController
	grammar   *controller.GrammarController
	essay     *controller.EssayController
	todo      *controller.TodoController
	report    *controller.ReportController
	user      *controller.UserController
	admin     *controller.AdminController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) reloadConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		session:   repository.NewSessionRepository(db),
		class:     repository.NewClassRepository(db),
		student:   repository.NewStudentRepository(db),
		homework:  repository.NewHomeworkRepository(db),
		comment:   repository.NewCommentRepository(db),
		dictation: repository.NewDictationRepository(db),
		spelling:  repository.NewSpellingRepository(db),
		grammar:   repository.NewGrammarRepository(db),
		essay:     repository.NewEssayRepository(db),
		todo:      repository.NewTodoRepository(db),
		admin:     repository.NewAdminRepository(db),
		report:    repository.NewReportRepository(db),
	}
}

// sessionStore 配置为 redis 且连接可用时使用 Redis，否则落库
func (a *App) sessionStore(repos *repositories, cfg *config.Config, rdb *redis.Client) service.SessionStore {
	if cfg.Session.Store == "redis" && rdb != nil {
		return service.NewRedisSessionStore(rdb)
	}
	return service.NewDBSessionStore(repos.session)
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, a.sessionStore(repos, cfg, rdb), cfg)
	s.user = service.NewUserService(repos.user)
	s.class = service.NewClassService(repos.class, repos.student)
	s.homework = service.NewHomeworkService(repos.homework, repos.student)
	s.comment = service.NewCommentService(repos.comment, repos.student)
	s.dictation = service.NewDictationService(repos.dictation, repos.student, s.ai, s.storage)
	s.spelling = service.NewSpellingService(repos.spelling, repos.student)
	s.grammar = service.NewGrammarService(repos.grammar, repos.student)
	s.essay = service.NewEssayService(repos.essay, repos.student, s.ai)
	s.todo = service.NewTodoService(repos.todo)
	s.admin = service.NewAdminService(repos.admin)
	s.report = service.NewReportService(repos.report, repos.class)
	s.seed = service.NewSeedService(db)

	// AI 配置支持热加载
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.ai.UpdateConfig(newCfg.AI)
		logger.Log.Info("AI config reloaded", zap.Bool("enabled", s.ai.Enabled()))
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	// 健康检查只在会话实际使用 Redis 时探测它
	var sessionRedis *redis.Client
	if a.Config.Session.Store == "redis" {
		sessionRedis = a.Redis
	}

	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		class:     controller.NewClassController(s.class),
		homework:  controller.NewHomeworkController(s.homework),
		comment:   controller.NewCommentController(s.comment),
		dictation: controller.NewDictationController(s.dictation),
		spelling:  controller.NewSpellingController(s.spelling),
		grammar:   controller.NewGrammarController(s.grammar),
		essay:     controller.NewEssayController(s.essay),
		todo:      controller.NewTodoController(s.todo),
		report:    controller.NewReportController(s.report),
		user:      controller.NewUserController(s.user),
		admin:     controller.NewAdminController(s.admin),
		health:    controller.NewHealthController(db, s.ai, s.storage, sessionRedis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, a.stop))

	// 登录单独限流
	a.loginLimiter = security.NewLimiter(cfg.RateLimit.LoginAttempts, window)
	go a.loginLimiter.Janitor(a.stop)

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 定期清理过期会话，Redis 会话由 TTL 自动过期
func (a *App) startBackgroundTasks(repos *repositories) {
	if a.Config.Session.Store == "redis" && a.Redis != nil {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := repos.session.DeleteExpired(time.Now())
				if err != nil {
					logger.Log.Error("Failed to delete expired sessions", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Log.Info("Expired sessions deleted", zap.Int64("count", n))
				}
			case <-a.stop:
				return
			}
		}
	}()
}

// New 用已打开的连接组装应用，rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		stop:   make(chan struct{}),
	}

	app.repos = app.initRepositories(db)
	app.services = app.initServices(app.repos, cfg, db, rdb)
	controllers := app.initControllers(app.services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == "debug" {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Session.Store == "redis" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			// Redis 不可用时退回数据库会话
			logger.Log.Warn("Failed to initialize redis, falling back to database sessions", zap.Error(err))
			rdb = nil
		}
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("class-tracker", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	if cfg.SeedDemo {
		summary, err := app.services.seed.SeedDemo()
		if err != nil {
			logger.Log.Error("Failed to seed demo data", zap.Error(err))
		} else {
			logger.Log.Info("Demo data seeded", zap.Any("summary", summary))
		}
	}

	app.startBackgroundTasks(app.repos)

	return app, nil
}

// Close 停止后台任务并释放连接
func (a *App) Close() {
	a.stopOnce.Do(func() {
		close(a.stop)
	})

	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if err := database.Close(a.DB); err != nil {
		logger.Log.Error("Failed to close database", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := configwatcher.WatchConfig(ctx, a.Config.Path, a.reloadConfig); err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}
