package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/adityawrmn/campus-eval-api/api/swagger"
	"github.com/adityawrmn/campus-eval-api/internal/handler"
	"github.com/adityawrmn/campus-eval-api/internal/middleware"
	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/repository"
	"github.com/adityawrmn/campus-eval-api/internal/seed"
	"github.com/adityawrmn/campus-eval-api/internal/service"
	"github.com/adityawrmn/campus-eval-api/pkg/config"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
	"github.com/adityawrmn/campus-eval-api/pkg/logger"
	corsmiddleware "github.com/adityawrmn/campus-eval-api/pkg/middleware/cors"
	reqidmiddleware "github.com/adityawrmn/campus-eval-api/pkg/middleware/requestid"
	"github.com/adityawrmn/campus-eval-api/pkg/storage"
)

// @title Campus Evaluation API
// @version 1.0.0
// @description Lecturer and facility evaluation service for students
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	store, cleanup, err := newStore(cfg, metricsSvc, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init store", "driver", cfg.Store.Driver, "error", err)
	}
	defer cleanup()

	ctx := context.Background()
	if cfg.Seed.Enabled {
		if err := seed.Initialize(ctx, store, logr); err != nil {
			logr.Sugar().Fatalw("failed to seed store", "error", err)
		}
	}

	lecturerRepo := repository.NewLecturerRepository(store)
	facilityRepo := repository.NewFacilityRepository(store)
	periodRepo := repository.NewPeriodRepository(store)
	evaluationRepo := repository.NewEvaluationRepository(store)
	userRepo := repository.NewUserRepository(store)
	reportRepo := repository.NewReportRepository(store)

	validate := validator.New()

	lecturerSvc := service.NewLecturerService(lecturerRepo, evaluationRepo, validate, logr)
	facilitySvc := service.NewFacilityService(facilityRepo, evaluationRepo, validate, logr)
	periodSvc := service.NewPeriodService(periodRepo, validate, logr)
	evaluationSvc := service.NewEvaluationService(evaluationRepo, lecturerRepo, facilityRepo, periodRepo, validate, logr, cfg.Evaluations.SubmitDelay)
	evaluationSvc.AttachMetrics(metricsSvc)
	statsSvc := service.NewStatsService(evaluationRepo, userRepo, logr, service.StatsServiceConfig{
		AttentionThreshold: cfg.Stats.AttentionThreshold,
		TopRankLimit:       cfg.Stats.TopRankLimit,
		FallbackStudents:   cfg.Stats.FallbackStudents,
	})
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	questionSvc := service.NewQuestionService()

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "dir", cfg.Reports.StorageDir, "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc = service.NewReportService(reportRepo, statsSvc, files, signer, metricsSvc, logr, service.ReportConfig{
			APIPrefix:         cfg.APIPrefix,
			WorkerConcurrency: cfg.Reports.WorkerConcurrency,
			WorkerRetries:     cfg.Reports.WorkerRetries,
		})
		reportSvc.Start(ctx)
		defer reportSvc.Stop()
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
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	lecturerHandler := handler.NewLecturerHandler(lecturerSvc)
	facilityHandler := handler.NewFacilityHandler(facilitySvc, questionSvc)
	periodHandler := handler.NewPeriodHandler(periodSvc)
	evaluationHandler := handler.NewEvaluationHandler(evaluationSvc, questionSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/profile", authHandler.Profile)
	authed.POST("/auth/change-password", authHandler.ChangePassword)

	authed.GET("/lecturers", lecturerHandler.List)
	authed.GET("/lecturers/:id", lecturerHandler.Get)
	authed.GET("/facilities", facilityHandler.List)
	authed.GET("/facilities/:id", facilityHandler.Get)
	authed.GET("/facility-categories", facilityHandler.Categories)
	authed.GET("/courses", evaluationHandler.Courses)
	authed.GET("/periods", periodHandler.List)
	authed.GET("/periods/:id", periodHandler.Get)
	authed.GET("/active-period", periodHandler.Active)

	authed.POST("/evaluate/:kind", evaluationHandler.Submit)
	authed.GET("/evaluate/:kind/questions", evaluationHandler.Questions)
	authed.GET("/evaluate/:kind/submitted", evaluationHandler.HasSubmitted)
	authed.GET("/evaluations/history", evaluationHandler.History)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/lecturers", lecturerHandler.Create)
	admin.PUT("/lecturers/:id", lecturerHandler.Update)
	admin.PATCH("/lecturers/:id/toggle-status", lecturerHandler.ToggleStatus)
	admin.DELETE("/lecturers/:id", lecturerHandler.Delete)

	admin.POST("/facilities", facilityHandler.Create)
	admin.PUT("/facilities/:id", facilityHandler.Update)
	admin.PATCH("/facilities/:id/toggle-status", facilityHandler.ToggleStatus)
	admin.DELETE("/facilities/:id", facilityHandler.Delete)

	admin.POST("/periods", periodHandler.Create)
	admin.PUT("/periods/:id", periodHandler.Update)
	admin.PATCH("/periods/:id/activate", periodHandler.Activate)
	admin.PATCH("/periods/:id/deactivate", periodHandler.Deactivate)
	admin.PATCH("/periods/:id/complete", periodHandler.Complete)
	admin.DELETE("/periods/:id", periodHandler.Delete)

	admin.GET("/stats/dashboard", statsHandler.Dashboard)
	admin.GET("/stats/summary/:kind", statsHandler.Aggregate)
	admin.GET("/stats/top-lecturers", statsHandler.TopLecturers)
	admin.GET("/stats/facilities-attention", statsHandler.FacilitiesAttention)
	admin.GET("/stats/monthly-trend", statsHandler.MonthlyTrend)
	admin.GET("/stats/lecturers", lecturerHandler.Stats)
	admin.GET("/stats/facilities", facilityHandler.Stats)

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc, logr)
		api.GET("/downloads/:token", reportHandler.Download)
		admin.POST("/reports", reportHandler.Request)
		admin.GET("/reports", reportHandler.List)
		admin.GET("/reports/:id", reportHandler.Get)
		admin.GET("/reports/:id/download-link", reportHandler.DownloadLink)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newStore selects the key-value backend from config and wraps it with
// latency instrumentation. The returned cleanup closes backend connections.
func newStore(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (kvstore.Store, func(), error) {
	noop := func() {}
	closer := func(closeFn func() error) func() {
		return func() {
			if err := closeFn(); err != nil {
				logr.Warn("failed to close store", zap.Error(err))
			}
		}
	}

	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		redisStore, err := kvstore.NewRedis(cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return kvstore.NewInstrumented(redisStore, metrics.ObserveStoreOperation), closer(redisStore.Close), nil
	case config.StoreDriverPostgres:
		pgStore, err := kvstore.NewPostgres(cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		return kvstore.NewInstrumented(pgStore, metrics.ObserveStoreOperation), closer(pgStore.Close), nil
	default:
		return kvstore.NewInstrumented(kvstore.NewMemory(), metrics.ObserveStoreOperation), noop, nil
	}
}
