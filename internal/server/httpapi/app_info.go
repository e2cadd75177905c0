package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getStatus reports liveness of the two backing stores.
func (s *Server) getStatus(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"redis": s.pingCache(ctx) == nil,
		"db":    s.pingDB(ctx) == nil,
	})
}

// getStats reports the document counts of both collections.
func (s *Server) getStats(c *gin.Context) {
	ctx := c.Request.Context()

	userCount, err := s.users.Count(ctx)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	fileCount, err := s.files.Count(ctx)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": userCount, "files": fileCount})
}
