// Package httpapi exposes the record services and report flows over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/swamp-dev/eunoia/internal/report"
	"github.com/swamp-dev/eunoia/internal/service"
	"github.com/swamp-dev/eunoia/internal/store"
)

// UserHeader carries the caller's user id. Authentication happens upstream.
const UserHeader = "X-User-ID"

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server routes HTTP requests to the services.
type Server struct {
	records *service.Services
	reports *report.Service
	logger  *slog.Logger
	sf      singleflight.Group
	router  *gin.Engine
}

// New creates a Server with its routes registered.
func New(records *service.Services, reports *report.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{records: records, reports: reports, logger: opts.Logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", UserHeader},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	s.router = r
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// scopeOf reads the storage scope from the request.
func scopeOf(c *gin.Context) (store.Scope, error) {
	scope := store.User(c.GetHeader(UserHeader))
	if c.Query("mode") == string(store.ModeSample) {
		scope = store.Sample()
	}
	return scope, scope.Validate()
}

// fail writes err with the status its kind maps to.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, report.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidScope):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
