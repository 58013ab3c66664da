package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubev2v/jobgraph/internal/config"
)

type Server struct {
	srv    *http.Server
	engine *gin.Engine
}

// NewServer builds the status API. registerHandlerFn receives the /api/v1
// group.
func NewServer(cfg *config.Configuration, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	if cfg.Server.StatusAddr == "" {
		return nil, errors.New("status address is empty")
	}

	if cfg.Server.ServerMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger := zap.L().Named("http")
	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	registerHandlerFn(engine.Group("/api/v1"))
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Server.StatusAddr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
		},
		engine: engine,
	}, nil
}

// Start serves until Stop is called. Requests inherit ctx. It returns
// http.ErrServerClosed after a graceful stop.
func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	zap.S().Named("http").Infow("status api listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler returns the router, for serving without a listener.
func (s *Server) Handler() http.Handler {
	return s.engine
}
