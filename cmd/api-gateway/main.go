package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eregistrar/eregistrar-api/api/swagger"
	"github.com/eregistrar/eregistrar-api/internal/handler"
	"github.com/eregistrar/eregistrar-api/internal/middleware"
	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/internal/repository"
	"github.com/eregistrar/eregistrar-api/internal/service"
	"github.com/eregistrar/eregistrar-api/pkg/cache"
	"github.com/eregistrar/eregistrar-api/pkg/config"
	"github.com/eregistrar/eregistrar-api/pkg/database"
	"github.com/eregistrar/eregistrar-api/pkg/export"
	"github.com/eregistrar/eregistrar-api/pkg/logger"
	corsmiddleware "github.com/eregistrar/eregistrar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eregistrar/eregistrar-api/pkg/middleware/requestid"
	"github.com/eregistrar/eregistrar-api/pkg/storage"
)

// @title eRegistrar API
// @version 1.0.0
// @description Campus registrar document-request service
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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	mediaStore, err := storage.NewLocalStorage(cfg.Media.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare media storage", "error", err)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	requestStore := repository.NewRequestStore(redisClient)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "eregistrar-api",
	})

	bindingSvc := service.NewBindingService(func(identityID string) *service.RequestEngine {
		return service.NewRequestEngine(identityID, requestStore, validate, logr, cfg.Requests,
			service.WithEngineMetrics(metricsSvc))
	}, logr)
	defer bindingSvc.Close()
	authSvc.Subscribe(bindingSvc.HandleIdentityEvent)

	profileSvc := service.NewProfileService(profileRepo, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, validate, logr, cfg.Announcements)
	signer := storage.NewSignedURLSigner(cfg.Media.SignedURLSecret, cfg.Media.SignedURLTTL)
	mediaSvc := service.NewMediaService(mediaRepo, mediaStore, signer, logr, cfg.Media)
	exportSvc := service.NewExportService(export.NewSlipExporter(), export.NewCSVExporter(), logr)
	contentSvc := service.NewContentService()

	authHandler := handler.NewAuthHandler(authSvc)
	requestHandler := handler.NewRequestHandler(bindingSvc, exportSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	mediaHandler := handler.NewMediaHandler(mediaSvc)
	contentHandler := handler.NewContentHandler(contentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	requests := api.Group("/requests", middleware.JWT(authSvc))
	{
		requests.GET("", requestHandler.List)
		requests.POST("", requestHandler.Create)
		requests.GET("/export", requestHandler.ExportHistory)
		requests.GET("/:id", requestHandler.Get)
		requests.PUT("/:id", requestHandler.Update)
		requests.DELETE("/:id", requestHandler.Delete)
		requests.POST("/:id/claim", requestHandler.Claim)
		requests.GET("/:id/slip", requestHandler.ClaimSlip)
	}

	profile := api.Group("/profile", middleware.JWT(authSvc))
	{
		profile.GET("", profileHandler.Get)
		profile.PUT("/sections", profileHandler.SaveSection)
		profile.DELETE("/sections/:section", profileHandler.DeleteSection)
		profile.PUT("/username", profileHandler.UpdateUsername)
		profile.PUT("/avatar", profileHandler.SetAvatar)
	}

	announcements := api.Group("/announcements")
	{
		announcements.GET("", middleware.JWT(authSvc), announcementHandler.List)
		announcements.GET("/office-status", announcementHandler.OfficeStatus)
		announcements.GET("/:id", middleware.JWT(authSvc), announcementHandler.Get)
		announcements.POST("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleRegistrar), announcementHandler.Create)
		announcements.DELETE("/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleRegistrar), announcementHandler.Delete)
	}

	media := api.Group("/media")
	{
		media.POST("", middleware.JWT(authSvc), mediaHandler.Upload)
		media.GET("/download", mediaHandler.Download)
		media.GET("/:id/sign", middleware.JWT(authSvc), mediaHandler.SignDownload)
		media.DELETE("/:id", middleware.JWT(authSvc), mediaHandler.Delete)
	}

	content := api.Group("/content")
	{
		content.GET("/onboarding", contentHandler.Onboarding)
		content.GET("/tutorial", contentHandler.Tutorial)
	}

	if cfg.Journal.Enabled {
		journalRepo := repository.NewJournalRepository(db)
		journalSvc := service.NewJournalService(journalRepo, validate, logr)
		journalHandler := handler.NewJournalHandler(journalSvc)

		journal := api.Group("/journal", middleware.JWT(authSvc))
		{
			journal.GET("", journalHandler.List)
			journal.POST("", journalHandler.Create)
			journal.DELETE("/:id", journalHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
