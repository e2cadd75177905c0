// Package httpapi exposes the REST surface of the files manager: account
// registration, token sessions, the file hierarchy and content retrieval.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okoshkin/filesmanager/internal/logging"
	"github.com/okoshkin/filesmanager/internal/server/files"
	"github.com/okoshkin/filesmanager/internal/server/sessions"
	"github.com/okoshkin/filesmanager/internal/server/upload"
	"github.com/okoshkin/filesmanager/internal/server/users"
)

// Pinger reports whether a backing dependency answers.
type Pinger func(ctx context.Context) error

type Server struct {
	users    *users.Service
	sessions *sessions.Service
	files    *files.Service
	pipeline *upload.Pipeline

	pingDB    Pinger
	pingCache Pinger

	log  logging.Logger
	http *http.Server
}

func NewServer(usersSvc *users.Service, sessionsSvc *sessions.Service, filesSvc *files.Service,
	pipeline *upload.Pipeline, pingDB, pingCache Pinger, log logging.Logger) *Server {
	return &Server{
		users:     usersSvc,
		sessions:  sessionsSvc,
		files:     filesSvc,
		pipeline:  pipeline,
		pingDB:    pingDB,
		pingCache: pingCache,
		log:       log.With("module", "httpapi"),
	}
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/status", s.getStatus)
	engine.GET("/stats", s.getStats)

	engine.POST("/users", s.postUsers)
	engine.GET("/connect", s.getConnect)
	engine.GET("/disconnect", s.getDisconnect)
	engine.GET("/users/me", s.requireAuth, s.getMe)

	engine.POST("/files", s.requireAuth, s.postFiles)
	engine.GET("/files", s.requireAuth, s.getFilesIndex)
	engine.GET("/files/:id", s.requireAuth, s.getFile)
	engine.PUT("/files/:id/publish", s.requireAuth, s.putPublish(true))
	engine.PUT("/files/:id/unpublish", s.requireAuth, s.putPublish(false))
	engine.GET("/files/:id/data", s.optionalAuth, s.getFileData)

	return engine
}

// Handler returns the routed engine, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.routes()}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info(ctx, "http server started", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
