package httpapi

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) postUsers(c *gin.Context) {
	var req registerRequest
	// decode what the body carries; absent or malformed fields surface
	// through the service's own validation order
	_ = c.ShouldBindJSON(&req)

	user, err := s.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusCreated, user.Public())
}

// getConnect exchanges Basic credentials for a session token.
func (s *Server) getConnect(c *gin.Context) {
	email, password, ok := basicCredentials(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	token, err := s.sessions.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) getDisconnect(c *gin.Context) {
	token := c.GetHeader(tokenHeader)
	if _, err := s.sessions.Resolve(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := s.sessions.Revoke(c.Request.Context(), token); err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getMe(c *gin.Context) {
	user, err := s.users.GetByID(c.Request.Context(), requesterID(c))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// basicCredentials parses an "Authorization: Basic base64(email:password)"
// header.
func basicCredentials(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	email, password, ok = strings.Cut(string(decoded), ":")
	return email, password, ok
}
