package crunchyroll

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/config"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/logger"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/metrics"
	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/pkg/models"
)

type Handler struct {
	client *Client
	cfg    *config.Config
	log    *logger.Logger
}

func NewHandler(cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		client: NewClient(cfg, log),
		cfg:    cfg,
		log:    log.WithContext("component", "crunchyroll_handler"),
	}
}

// Lookup handles GET /?q=<query> for the Crunchyroll pipeline.
func (h *Handler) Lookup(c *gin.Context) {
	metrics.IncRequests()

	query := c.Query("q")
	if query == "" {
		c.IndentedJSON(http.StatusOK, gin.H{
			"message": h.cfg.PoweredBy + " Crunchyroll API",
			"usage":   "/?q=Anime+Name",
			"examples": []string{
				"/?q=Jujutsu+Kaisen",
				"/?q=One+Piece",
				"/?q=https://www.crunchyroll.com/series/GY9PJ5KWR/naruto",
				"/?q=GY9PJ5KWR",
			},
		})
		return
	}

	record, err := h.client.FetchSeries(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, query, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.IndentedJSON(http.StatusOK, record)
}

func (h *Handler) writeError(c *gin.Context, query string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		metrics.IncNotFound()
		h.log.Info("series_not_found", "query", query)
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "Series not found"})
	case errors.Is(err, models.ErrValidation):
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "Empty query"})
	default:
		metrics.IncUpstreamErrors()
		h.log.Error("series_lookup_failed", "query", query, "error", err.Error())
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
