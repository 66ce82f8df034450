// Package debugserver exposes boot state and runtime metrics over HTTP for
// external harnesses.
package debugserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Faultbox/glade/internal/logger"
)

// Server serves /debug/boot, /debug/process and /metrics.
type Server struct {
	src     BootSource
	metrics *Metrics
	started time.Time
	router  *gin.Engine
	http    *http.Server
	log     *zap.Logger
}

// New builds the server; call Start to listen.
func New(src BootSource, metrics *Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		src:     src,
		metrics: metrics,
		started: time.Now(),
		router:  gin.New(),
		log:     logger.Named("debugserver"),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(otelgin.Middleware("glade-debug"))
	s.router.Use(s.requestLog())

	s.router.GET("/debug/boot", s.handleBoot)
	s.router.GET("/debug/process", s.handleProcess)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when the port is 0.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("debug server listen %s: %w", addr, err)
	}
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("debug server stopped", zap.Error(err))
		}
	}()
	s.log.Info("debug server listening", zap.String("addr", ln.Addr().String()))
	return ln.Addr().String(), nil
}

// Shutdown stops the server if it was started.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleBoot(c *gin.Context) {
	c.JSON(http.StatusOK, s.src.Snapshot())
}

func (s *Server) handleProcess(c *gin.Context) {
	st, err := processStats(s.started)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
