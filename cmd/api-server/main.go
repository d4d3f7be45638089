package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/internal/anilist"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/internal/crunchyroll"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/cache"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/config"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/logger"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/metrics"
)

func main() {
	// Load environment variables from .env if present (optional)
	_ = godotenv.Load()

	logLevel := logger.INFO
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logLevel = logger.LogLevel(level)
	}
	jsonFormat := os.Getenv("LOG_FORMAT") == "json"
	logger.Init(logLevel, jsonFormat, os.Stdout)

	log := logger.GetLogger().WithContext("component", "api_server")
	log.Info("starting_api_server", "version", "1.0.0")

	cfg := config.Load()

	// Response cache is best-effort: a broken cache file degrades to
	// uncached operation instead of refusing to start.
	var responses *cache.ResponseCache
	if rc, err := cache.Open(cfg.CachePath, cfg.CacheMaxAge); err != nil {
		log.Warn("response_cache_unavailable", "error", err.Error(), "path", cfg.CachePath)
	} else {
		responses = rc
		defer responses.Close()
		if pruned, err := responses.Prune(); err == nil && pruned > 0 {
			log.Info("response_cache_pruned", "removed", pruned)
		}
	}

	anilistHandler := anilist.NewHandler(cfg, logger.GetLogger(), responses)
	crunchyrollHandler := crunchyroll.NewHandler(cfg, logger.GetLogger())
	metricsHandler := metrics.NewHandler()

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.FrontendURL == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	// The bare route serves whichever provider the deployment selects;
	// the explicit routes expose both pipelines.
	selected := anilistHandler.Lookup
	if strings.EqualFold(cfg.Selector, "crunchyroll") {
		selected = crunchyrollHandler.Lookup
	}
	router.GET("/", selected)
	router.GET("/anilist", anilistHandler.Lookup)
	router.GET("/crunchyroll", crunchyrollHandler.Lookup)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metricsHandler.Metrics)

	router.NoRoute(func(c *gin.Context) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	log.Info("api_server_listening", "port", cfg.Port, "selector", cfg.Selector)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("api_server_failed", "error", err.Error())
		os.Exit(1)
	}
}
