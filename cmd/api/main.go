package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rizkia-dev/study-planner-api/api/swagger"
	"github.com/rizkia-dev/study-planner-api/internal/handler"
	"github.com/rizkia-dev/study-planner-api/internal/middleware"
	"github.com/rizkia-dev/study-planner-api/internal/repository"
	"github.com/rizkia-dev/study-planner-api/internal/service"
	"github.com/rizkia-dev/study-planner-api/pkg/cache"
	"github.com/rizkia-dev/study-planner-api/pkg/config"
	"github.com/rizkia-dev/study-planner-api/pkg/database"
	"github.com/rizkia-dev/study-planner-api/pkg/logger"
	corsmiddleware "github.com/rizkia-dev/study-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/rizkia-dev/study-planner-api/pkg/middleware/requestid"
)

// @title Study Planner API
// @version 1.0.0
// @description Personal study scheduler with automatic timetable generation
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and locking disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, cfg.Analytics.Enabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	subjectSvc := service.NewSubjectService(subjectRepo, cacheSvc, validate, logr)
	preferenceSvc := service.NewPreferenceService(preferenceRepo, validate, logr)
	constraintSvc := service.NewConstraintService(constraintRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(subjectRepo, preferenceRepo, constraintRepo, sessionRepo, cacheRepo, cacheSvc, metricsSvc, validate, logr, service.ScheduleConfig{
		DefaultHorizonDays: cfg.Scheduler.DefaultHorizonDays,
		MaxHorizonDays:     cfg.Scheduler.MaxHorizonDays,
		GenerationLockTTL:  cfg.Scheduler.GenerationLockTTL,
	})
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, cfg.Analytics.CacheTTL, logr)
	exportSvc := service.NewExportService(sessionRepo, nil, nil, logr)

	missedSvc := service.NewMissedSessionService(sessionRepo, logr, service.MissedSessionConfig{
		GraceMinutes: cfg.Jobs.GraceMinutes,
		Workers:      cfg.Jobs.Workers,
		MaxRetries:   cfg.Jobs.MaxRetries,
		RetryDelay:   cfg.Jobs.RetryDelay,
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	missedSvc.Start(rootCtx)
	defer missedSvc.Stop()

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	preferenceHandler := handler.NewPreferenceHandler(preferenceSvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	jobHandler := handler.NewJobHandler(missedSvc)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Profile)
			auth.PUT("/password", middleware.JWT(authSvc), authHandler.ChangePassword)
		}

		protected := api.Group("", middleware.JWT(authSvc))
		{
			protected.GET("/subjects", subjectHandler.List)
			protected.POST("/subjects", subjectHandler.Create)
			protected.GET("/subjects/:id", subjectHandler.Get)
			protected.PUT("/subjects/:id", subjectHandler.Update)
			protected.DELETE("/subjects/:id", subjectHandler.Delete)

			protected.GET("/preferences", preferenceHandler.Get)
			protected.PUT("/preferences", preferenceHandler.Update)

			protected.GET("/constraints", constraintHandler.List)
			protected.POST("/constraints", constraintHandler.Create)
			protected.PUT("/constraints/:id", constraintHandler.Update)
			protected.DELETE("/constraints/:id", constraintHandler.Delete)

			protected.POST("/schedule/generate", scheduleHandler.Generate)
			protected.GET("/schedule", scheduleHandler.List)
			protected.PATCH("/schedule/sessions/:id", scheduleHandler.UpdateSession)
			protected.PUT("/schedule/sessions/:id/reschedule", scheduleHandler.RescheduleSession)
			protected.DELETE("/schedule/sessions/:id", scheduleHandler.DeleteSession)

			protected.GET("/analytics/week", analyticsHandler.Week)
			protected.GET("/analytics/productivity", analyticsHandler.Productivity)
			protected.GET("/analytics/missed", analyticsHandler.Missed)

			protected.POST("/jobs/missed-sessions/sweep", jobHandler.SweepMissed)

			if cfg.Export.Enabled {
				protected.GET("/export/schedule", exportHandler.Schedule)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
