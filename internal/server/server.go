// Package server exposes a feed.ResourceStore over the REST contract the
// resource client speaks: per-collection list/get/create/update/delete with
// server-assigned string IDs, PUT merging the fields it is sent, and errors
// reported as {"message": "..."}.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feed-go/internal/feed"
)

// Server is the HTTP front of a resource store.
type Server struct {
	store  feed.ResourceStore
	logger feed.Logger
	clock  feed.Clock
	engine *gin.Engine
}

// NewServer builds the router for store.
func NewServer(store feed.ResourceStore, logger feed.Logger, clock feed.Clock) *Server {
	s := &Server{
		store:  store,
		logger: logger,
		clock:  clock,
		engine: gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	posts := s.engine.Group("/" + feed.CollectionPosts)
	{
		posts.GET("", s.listPosts)
		posts.GET("/:id", s.getPost)
		posts.POST("", s.createPost)
		posts.PUT("/:id", s.updatePost)
		posts.DELETE("/:id", s.deletePost)
	}

	users := s.engine.Group("/" + feed.CollectionUsers)
	{
		users.GET("", s.listUsers)
		users.GET("/:id", s.getUser)
		users.POST("", s.createUser)
		users.PUT("/:id", s.updateUser)
		users.DELETE("/:id", s.deleteUser)
	}

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	return s
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("resource store listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		s.logger.Info("resource store stopped")
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Truncate(time.Microsecond),
		)
	}
}

// respondError maps store errors to a status and a {"message"} body.
func (s *Server) respondError(c *gin.Context, err error) {
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	s.logger.Error("store request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "details": err.Error()})
}
