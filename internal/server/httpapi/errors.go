package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okoshkin/filesmanager/internal/common"
)

// writeError maps a service error onto an HTTP status and the
// {"error": message} body. notFoundStatus lets the upload endpoint report
// an absent parent as a bad request while lookups report 404.
func writeError(c *gin.Context, err error, notFoundStatus int) {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(notFoundStatus, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrStorage), errors.Is(err, common.ErrProcessing):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
