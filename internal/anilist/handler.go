package anilist

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/cache"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/config"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/logger"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/metrics"
)

type Handler struct {
	client *Client
	cfg    *config.Config
	log    *logger.Logger

	// Optional response cache; nil disables caching.
	responses *cache.ResponseCache
}

func NewHandler(cfg *config.Config, log *logger.Logger, responses *cache.ResponseCache) *Handler {
	return &Handler{
		client:    NewClient(cfg, log),
		cfg:       cfg,
		log:       log.WithContext("component", "anilist_handler"),
		responses: responses,
	}
}

// Lookup handles GET /?q=<query>&type=anime|manga for the AniList pipeline.
func (h *Handler) Lookup(c *gin.Context) {
	metrics.IncRequests()

	cacheKey := c.Request.Method + " " + c.Request.URL.String()
	if h.responses != nil {
		if cached, ok := h.responses.Match(cacheKey); ok {
			metrics.IncCacheHits()
			c.Header("Cache-Control", "public, max-age=3600")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			return
		}
		metrics.IncCacheMisses()
	}

	query := c.Query("q")
	if query == "" {
		c.IndentedJSON(http.StatusOK, gin.H{
			"message": h.cfg.PoweredBy + " AniList API",
			"usage":   "/?q=Query&type=anime|manga",
			"examples": []string{
				"/?q=Naruto",
				"/?q=One+Piece&type=manga",
				"/?q=Bleach&t=m",
				"/?q=21",
				"/?q=https://anilist.co/anime/178025/Gachiakuta/",
			},
		})
		return
	}

	mediaType := "ANIME"
	if strings.EqualFold(c.Query("type"), "manga") || strings.EqualFold(c.Query("t"), "m") {
		mediaType = "MANGA"
	}

	// The token is optional: a failed handshake degrades to an
	// unauthenticated request rather than failing the lookup.
	token := ""
	if h.client.HasCredentials() {
		t, err := h.client.GetAccessToken(c.Request.Context())
		if err != nil {
			h.log.Warn("anilist_auth_failed", "error", err.Error())
		} else {
			token = t
		}
	}

	media, limited, err := h.client.Fetch(c.Request.Context(), query, mediaType, token)
	if err != nil {
		metrics.IncUpstreamErrors()
		h.log.Error("anilist_lookup_failed", "query", query, "error", err.Error())
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if limited != nil {
		metrics.IncRateLimited()
		c.IndentedJSON(http.StatusOK, limited)
		return
	}
	if media == nil {
		metrics.IncNotFound()
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.IndentedJSON(http.StatusOK, media)

	if h.responses != nil {
		if body, err := json.MarshalIndent(media, "", "    "); err == nil {
			h.responses.PutAsync(cacheKey, http.StatusOK, "application/json; charset=utf-8", body)
		}
	}
}
