package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	tokenHeader = "X-Token"
	ctxUserID   = "userID"
)

// requireAuth resolves the X-Token header to a user id and aborts with 401
// when the session is absent or expired.
func (s *Server) requireAuth(c *gin.Context) {
	userID, err := s.sessions.Resolve(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Set(ctxUserID, userID)
	c.Next()
}

// optionalAuth resolves the token when present but never rejects: content
// retrieval decides access per record.
func (s *Server) optionalAuth(c *gin.Context) {
	if token := c.GetHeader(tokenHeader); token != "" {
		if userID, err := s.sessions.Resolve(c.Request.Context(), token); err == nil {
			c.Set(ctxUserID, userID)
		}
	}
	c.Next()
}

func requesterID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
