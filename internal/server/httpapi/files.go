package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/okoshkin/filesmanager/internal/server/models"
	"github.com/okoshkin/filesmanager/internal/server/upload"
)

// parentID tolerates both wire encodings of a parent reference: the hex
// string of a folder, and the numeric form of the root sentinel some
// clients send (0 instead of "0").
type parentID string

func (p *parentID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = parentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parentId must be a string or a number: %w", err)
	}
	*p = parentID(n.String())
	return nil
}

type uploadRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	ParentID parentID `json:"parentId"`
	IsPublic bool     `json:"isPublic"`
	Data     string   `json:"data"`
}

func (s *Server) postFiles(c *gin.Context) {
	var req uploadRequest
	// decode what the body carries; absent or malformed fields surface
	// through the fixed validation order of the pipeline
	_ = c.ShouldBindJSON(&req)

	file, err := s.pipeline.Upload(c.Request.Context(), requesterID(c), upload.Request{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		// an absent parent is a client mistake on upload, not a missing
		// resource
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, file.Public())
}

func (s *Server) getFile(c *gin.Context) {
	file, err := s.files.Get(c.Request.Context(), c.Param("id"), requesterID(c))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, file.Public())
}

func (s *Server) getFilesIndex(c *gin.Context) {
	page, err := strconv.ParseInt(c.Query("page"), 10, 64)
	if err != nil || page < 0 {
		page = 0
	}

	list, err := s.files.List(c.Request.Context(), requesterID(c), c.Query("parentId"), page)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	out := make([]models.PublicFile, 0, len(list))
	for _, f := range list {
		out = append(out, f.Public())
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) putPublish(isPublic bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := s.files.SetVisibility(c.Request.Context(), c.Param("id"), requesterID(c), isPublic)
		if err != nil {
			writeError(c, err, http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, file.Public())
	}
}

func (s *Server) getFileData(c *gin.Context) {
	data, mimeType, err := s.pipeline.FetchContent(c.Request.Context(), c.Param("id"), requesterID(c), c.Query("size"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, mimeType, data)
}
