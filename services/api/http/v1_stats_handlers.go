package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleStats(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, handlerTimeout)
	defer cancel()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.log.Error("stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stats,
		"meta": gin.H{"generated_at": time.Now().UTC().Format(time.RFC3339)},
	})
}
