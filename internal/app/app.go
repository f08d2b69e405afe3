package app

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	material    *repository.MaterialRepository
	enrollment  *repository.EnrollmentRepository
	question    *repository.QuestionRepository
	examSetting *repository.ExamSettingRepository
	examHistory *repository.ExamHistoryRepository
	certificate *repository.CertificateRepository
}

type services struct {
	settings     *service.SettingsService
	content      *service.ContentService
	enrollment   *service.EnrollmentService
	eligibility  *service.EligibilityService
	progress     *service.ProgressService
	exam         *service.ExamService
	question     *service.QuestionService
	certificate  *service.CertificateService
	notification *service.NotificationService
}

type controllers struct {
	health      *controller.HealthController
	course      *controller.CourseController
	enrollment  *controller.EnrollmentController
	exam        *controller.ExamController
	question    *controller.QuestionController
	settings    *controller.SettingsController
	certificate *controller.CertificateController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热更新配置，逐个执行已注册的回调
func (a *App) ApplyConfig(newCfg *config.Config) {
	a.Config = newCfg
	for _, cb := range a.configCallbacks {
		cb(newCfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		material:    repository.NewMaterialRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		question:    repository.NewQuestionRepository(db),
		examSetting: repository.NewExamSettingRepository(db),
		examHistory: repository.NewExamHistoryRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, rdb *redis.Client) *services {
	s := &services{}

	s.settings = service.NewSettingsService(repos.examSetting)
	s.content = service.NewContentService(repos.course, repos.material)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course)
	s.eligibility = service.NewEligibilityService(repos.enrollment, repos.material, repos.course, s.settings, rdb)
	s.progress = service.NewProgressService(repos.enrollment, s.eligibility)
	s.exam = service.NewExamService(repos.question, repos.examHistory, s.settings, s.eligibility)
	s.question = service.NewQuestionService(repos.question)
	s.notification = service.NewNotificationService(rdb)
	s.certificate = service.NewCertificateService(repos.certificate, repos.enrollment, repos.user, s.notification)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		health:      controller.NewHealthController(db),
		course:      controller.NewCourseController(s.content),
		enrollment:  controller.NewEnrollmentController(s.enrollment, s.progress),
		exam:        controller.NewExamController(s.exam, s.eligibility),
		question:    controller.NewQuestionController(s.question),
		settings:    controller.NewSettingsController(s.settings),
		certificate: controller.NewCertificateController(s.certificate),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("lms-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
