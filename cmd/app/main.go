package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"pp_quest/internal/api"
	"pp_quest/internal/gemini"
	"pp_quest/internal/middleware"
	"pp_quest/internal/repository"
	"pp_quest/internal/service"
	"pp_quest/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx := context.Background()

	if cfg.Storage.Driver == repository.DriverSQLite && cfg.Storage.Path != "" && cfg.Storage.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			zapLogger.Fatal("Failed to create storage directory", zap.Error(err))
		}
	}

	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	defer store.Close()

	client, err := gemini.NewClient(ctx, cfg.Gemini)
	if err != nil {
		zapLogger.Fatal("Failed to initialize gemini client", zap.Error(err))
	}

	hub := api.NewFeedHub()
	questService := service.NewQuestService(store, client, client,
		service.WithNotifier(hub),
		service.WithShareBaseURL(cfg.Server.ShareBaseURL),
	)
	if err := questService.Load(ctx); err != nil {
		zapLogger.Warn("Starting with incomplete state", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	config := cors.DefaultConfig()
	if len(cfg.Server.CorsOrigins) > 0 {
		config.AllowOrigins = cfg.Server.CorsOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
	}
	config.AllowHeaders = []string{"*"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a := router.Group("/api/v1")
	api.NewQuestRoutes(a, questService)
	api.NewProfileRoutes(a, questService)
	api.NewI18nRoutes(a)
	api.NewFeedRoutes(a, hub, questService)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr), zap.String("storage", cfg.Storage.Driver))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
