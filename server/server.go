// Package server exposes the conversation store over a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"willchat/chat"
	"willchat/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	store  *chat.Store
	pro    *chat.ProMode
	router *gin.Engine
	log    zerolog.Logger

	// replying is held by the one request allowed to wait on a reply.
	replying atomic.Bool
}

// New builds the router. pro may be nil, in which case the pro routes
// answer 404.
func New(store *chat.Store, pro *chat.ProMode) *Server {
	s := &Server{
		store:  store,
		pro:    pro,
		router: gin.New(),
		log:    config.Component("server"),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.log))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	api.GET("/state", s.getState)

	api.GET("/conversations", s.listConversations)
	api.POST("/conversations", s.createConversation)
	api.POST("/conversations/:id/select", s.selectConversation)
	api.PATCH("/conversations/:id", s.renameConversation)
	api.DELETE("/conversations/:id", s.deleteConversation)
	api.GET("/conversations/:id/export", s.exportConversation)

	api.POST("/messages", s.sendMessage)
	api.POST("/messages/:id/regenerate", s.regenerateMessage)

	api.GET("/pro", s.getPro)
	api.POST("/pro", s.activatePro)
	api.DELETE("/pro", s.deactivatePro)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info().Msg("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusBadRequest {
			event = log.Warn()
		}
		for _, e := range c.Errors {
			log.Error().Err(e.Err).Str("path", c.Request.URL.Path).Msg("request error")
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	}
}
