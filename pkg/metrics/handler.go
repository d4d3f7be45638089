package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"requests_total":        GetRequests(),
		"cache_hits_total":      GetCacheHits(),
		"cache_misses_total":    GetCacheMisses(),
		"upstream_errors_total": GetUpstreamErrors(),
		"not_found_total":       GetNotFound(),
		"rate_limited_total":    GetRateLimited(),
	})
}
