// Package server hosts the HTTP side of the bot: the OAuth callback
// Google redirects to after the user grants calendar access.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suhasdasari/remo-calender/internal/domain"
	"github.com/suhasdasari/remo-calender/internal/service"
)

// Notifier tells a user their calendar is connected. The bot handler
// implements it.
type Notifier interface {
	NotifyConnected(ctx context.Context, userID int64)
}

type Server struct {
	http     *http.Server
	calendar *service.CalendarService
	notifier Notifier
}

func New(port int, calendar *service.CalendarService, notifier Notifier) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		calendar: calendar,
		notifier: notifier,
	}

	router.GET("/oauth2/callback", s.handleCallback)
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	return s
}

func (s *Server) handleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.String(http.StatusBadRequest, "missing state or code")
		return
	}

	userID, err := s.calendar.CompleteAuth(c.Request.Context(), state, code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			c.String(http.StatusBadRequest, "This link has expired. Ask the bot for a new one.")
			return
		}
		slog.Error("complete auth", "error", err)
		c.String(http.StatusInternalServerError, "Something went wrong connecting your calendar.")
		return
	}

	if s.notifier != nil {
		s.notifier.NotifyConnected(c.Request.Context(), userID)
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, "<html><body><h2>Calendar connected ✅</h2><p>You can close this tab and return to Telegram.</p></body></html>")
}

func (s *Server) Start() error {
	slog.Info("oauth callback server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
