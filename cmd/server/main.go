package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/mistake-journal/internal/handler"
	"github.com/noah-isme/mistake-journal/internal/middleware"
	"github.com/noah-isme/mistake-journal/internal/repository"
	"github.com/noah-isme/mistake-journal/internal/service"
	"github.com/noah-isme/mistake-journal/pkg/cache"
	"github.com/noah-isme/mistake-journal/pkg/config"
	"github.com/noah-isme/mistake-journal/pkg/database"
	"github.com/noah-isme/mistake-journal/pkg/logger"
	corsmiddleware "github.com/noah-isme/mistake-journal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mistake-journal/pkg/middleware/requestid"
)

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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Stats.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, stats cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, true)
		}
	}

	authSvc := service.NewAuthService(cfg.Auth.Token)
	mistakeRepo := repository.NewMistakeRepository(db)
	mistakeSvc := service.NewMistakeService(mistakeRepo, cacheSvc, validator.New(), logr)
	mistakeHandler := handler.NewMistakeHandler(mistakeSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	gate := middleware.TokenGate(authSvc, handler.Protected)
	r.GET("/api", gate, mistakeHandler.Dispatch)
	r.POST("/api", gate, mistakeHandler.Dispatch)

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

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
