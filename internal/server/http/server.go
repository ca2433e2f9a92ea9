package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahmad2b/cogniserve/internal/logging"
)

// Server wraps the engine in an http.Server with sane timeouts and a
// graceful shutdown path.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// ServerOptions configures timeouts on the listener.
type ServerOptions struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer binds the engine to addr. WriteTimeout must be long enough to
// cover a full streamed run; zero disables it.
func NewServer(engine *gin.Engine, opts ServerOptions) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      engine,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
		logger: logging.NewComponentLogger("Server"),
	}
}

// ListenAndServe blocks serving requests until Shutdown is called or the
// listener fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, including open streams, within the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.httpServer.Shutdown(ctx)
}
