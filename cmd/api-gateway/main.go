package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/formtrack/formtrack-api/api/swagger"
	"github.com/formtrack/formtrack-api/internal/handler"
	"github.com/formtrack/formtrack-api/internal/middleware"
	"github.com/formtrack/formtrack-api/internal/repository"
	"github.com/formtrack/formtrack-api/internal/service"
	"github.com/formtrack/formtrack-api/pkg/cache"
	"github.com/formtrack/formtrack-api/pkg/config"
	"github.com/formtrack/formtrack-api/pkg/database"
	"github.com/formtrack/formtrack-api/pkg/logger"
	corsmiddleware "github.com/formtrack/formtrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/formtrack/formtrack-api/pkg/middleware/requestid"
)

// @title FormTrack API
// @version 1.0.0
// @description Form builder backend with attendance tracking and aggregation
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	formRepo := repository.NewFormRepository(db)
	studentRepo := repository.NewStudentRecordRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	guard := service.NewAccessGuard(formRepo, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	formSvc := service.NewFormService(formRepo, guard, logr)
	studentSvc := service.NewStudentService(studentRepo, guard, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, guard, cacheSvc, metricsSvc, validate, logr, cfg.Attendance.LateThresholdMinutes)
	exportSvc := service.NewExportService(attendanceSvc, cfg.Exports.Title, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	formHandler := handler.NewFormHandler(formSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/forms", formHandler.List)
		protected.GET("/forms/:id", formHandler.Get)
		protected.GET("/forms/:id/students", studentHandler.List)
		protected.GET("/forms/:id/students/:studentId", studentHandler.Get)
		protected.POST("/forms/:id/students/import", studentHandler.Import)

		protected.POST("/attendance/mark", attendanceHandler.Mark)
		protected.POST("/attendance/checkin", attendanceHandler.CheckIn)
		protected.POST("/attendance/checkin-code", attendanceHandler.IssueCheckInCode)
		protected.GET("/attendance/records", attendanceHandler.Records)
		protected.GET("/attendance/overview", attendanceHandler.Overview)
		if cfg.Exports.Enabled {
			protected.GET("/attendance/export", attendanceHandler.Export)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
