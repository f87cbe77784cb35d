package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"quiz_iq_backend/internal/config"
	"quiz_iq_backend/internal/controller"
	"quiz_iq_backend/internal/repository"
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/pkg/configwatcher"
	"quiz_iq_backend/pkg/database"
	"quiz_iq_backend/pkg/events"
	"quiz_iq_backend/pkg/logger"
	"quiz_iq_backend/pkg/monitoring"
	"quiz_iq_backend/pkg/security"
	"quiz_iq_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	publisher       events.Publisher
	tracerProvider  *sdktrace.TracerProvider
	ipLimiter       *security.KeyedLimiter
	otpLimiter      *security.KeyedLimiter
	cancelWatch     context.CancelFunc
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user            *repository.UserRepository
	admin           *repository.AdminRepository
	otp             *repository.OtpRepository
	session         *repository.SessionStore
	subject         *repository.SubjectRepository
	quiz            *repository.QuizRepository
	question        *repository.QuestionRepository
	scenario        *repository.ScenarioRepository
	attempt         *repository.AttemptRepository
	iqGrade         *repository.IqGradeRepository
	payment         *repository.PaymentRepository
	paymentSettings *repository.PaymentSettingsRepository
}

type services struct {
	otpSender *service.TwilioSender
	paystack  *service.PaystackClient
	auth      *service.AuthService
	subject   *service.SubjectService
	quiz      *service.QuizService
	question  *service.QuestionService
	iqGrade   *service.IqGradeService
	payment   *service.PaymentService
}

type controllers struct {
	auth     *controller.AuthController
	subject  *controller.SubjectController
	quiz     *controller.QuizController
	question *controller.QuestionController
	iqGrade  *controller.IqGradeController
	payment  *controller.PaymentController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:            repository.NewUserRepository(db),
		admin:           repository.NewAdminRepository(db),
		otp:             repository.NewOtpRepository(db),
		session:         repository.NewSessionStore(rdb),
		subject:         repository.NewSubjectRepository(db),
		quiz:            repository.NewQuizRepository(db),
		question:        repository.NewQuestionRepository(db),
		scenario:        repository.NewScenarioRepository(db),
		attempt:         repository.NewAttemptRepository(db),
		iqGrade:         repository.NewIqGradeRepository(db),
		payment:         repository.NewPaymentRepository(db),
		paymentSettings: repository.NewPaymentSettingsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.otpSender = service.NewTwilioSender(cfg.OTP)
	s.paystack = service.NewPaystackClient(cfg.Paystack)

	s.auth = service.NewAuthService(repos.user, repos.admin, repos.otp, repos.session, s.otpSender, cfg)
	s.subject = service.NewSubjectService(repos.subject)
	s.quiz = service.NewQuizService(
		repos.quiz,
		repos.subject,
		repos.attempt,
		repos.iqGrade,
		repos.payment,
		a.publisher,
	)
	s.question = service.NewQuestionService(repos.question, repos.scenario, repos.quiz)
	s.iqGrade = service.NewIqGradeService(repos.iqGrade, repos.subject)
	s.payment = service.NewPaymentService(repos.payment, repos.paymentSettings, repos.user, s.paystack, cfg)

	// 密钥类配置支持热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.otpSender.UpdateConfig(newCfg.OTP)
		s.paystack.UpdateConfig(newCfg.Paystack)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, s.payment, a.Config.Session.Secure),
		subject:  controller.NewSubjectController(s.subject),
		quiz:     controller.NewQuizController(s.quiz),
		question: controller.NewQuestionController(s.question),
		iqGrade:  controller.NewIqGradeController(s.iqGrade),
		payment:  controller.NewPaymentController(s.payment),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	a.ipLimiter = security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.ipLimiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func initPublisher(cfg *config.EventsConfig) events.Publisher {
	if cfg.AMQPURL == "" {
		logger.Log.Info("AMQP not configured, attempt events disabled")
		return events.NopPublisher{}
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		// 事件发布为尽力而为，连接失败不影响启动
		logger.Log.Error("Failed to connect to AMQP, attempt events disabled", zap.Error(err))
		return events.NopPublisher{}
	}
	logger.Log.Info("AMQP publisher ready", zap.String("exchange", cfg.Exchange))
	return pub
}

func (a *App) startBackgroundTasks() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelWatch = cancel

	err := configwatcher.Watch(ctx, configDir, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不自动迁移，需通过 -migrate 显式开启
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb
	app.publisher = initPublisher(&cfg.Events)

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	// 验证码发送与校验共用一个更严格的限流，防止短信轰炸和暴力猜码
	app.otpLimiter = security.NewKeyedLimiter(cfg.RateLimit.OTPMaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	app.otpLimiter.StartCleanup(5 * time.Minute)

	app.registerRoutes(router, controllers)

	app.startBackgroundTasks()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 释放后台任务和外部连接
func (a *App) Close(ctx context.Context) {
	if a.cancelWatch != nil {
		a.cancelWatch()
	}
	if a.ipLimiter != nil {
		a.ipLimiter.Stop()
	}
	if a.otpLimiter != nil {
		a.otpLimiter.Stop()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
