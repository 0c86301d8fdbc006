// Package api exposes the controller over a small local HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/valpere/nebo/internal/config"
	"github.com/valpere/nebo/internal/controller"
	"github.com/valpere/nebo/internal/middleware"
	"github.com/valpere/nebo/internal/version"
	"github.com/valpere/nebo/pkg/metrics"
	"github.com/valpere/nebo/pkg/weather"
)

// Controller is the part of controller.Controller served over HTTP.
type Controller interface {
	ToggleSearch()
	QueryChanged(value string)
	Select(loc weather.Location)
	State() controller.UIState
}

type Server struct {
	ctrl    Controller
	logger  zerolog.Logger
	metrics *metrics.Metrics
	limiter *middleware.ClientRateLimiter
	router  *gin.Engine
	server  *http.Server
}

type queryRequest struct {
	Value string `json:"value"`
}

type selectRequest struct {
	Name    string `json:"name" binding:"required"`
	Country string `json:"country" binding:"required"`
}

func NewServer(cfg *config.ServerConfig, ctrl Controller, metricsCollector *metrics.Metrics, logger zerolog.Logger) *Server {
	s := &Server{
		ctrl:    ctrl,
		logger:  logger.With().Str("component", "api").Logger(),
		metrics: metricsCollector,
		limiter: middleware.NewClientRateLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
	}

	s.setupRouter()

	s.server = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logging(s.logger))
	router.Use(middleware.Metrics(s.metrics))
	router.Use(middleware.RateLimit(s.limiter))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": version.GetInfo().Short(),
			"time":    time.Now().Unix(),
			"weather_api_avg_ms": gin.H{
				"forecast": s.metrics.AverageAPIDuration("forecast"),
				"search":   s.metrics.AverageAPIDuration("search"),
			},
		})
	})

	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/state", s.getState)
	v1.POST("/search/toggle", s.toggleSearch)
	v1.POST("/search/query", s.queryChanged)
	v1.POST("/select", s.selectLocation)

	s.router = router
}

func (s *Server) getState(c *gin.Context) {
	state := s.ctrl.State()
	c.JSON(http.StatusOK, gin.H{
		"state": state,
		"phase": state.Phase().String(),
	})
}

func (s *Server) toggleSearch(c *gin.Context) {
	s.ctrl.ToggleSearch()
	c.Status(http.StatusAccepted)
}

func (s *Server) queryChanged(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.ctrl.QueryChanged(req.Value)
	c.Status(http.StatusAccepted)
}

func (s *Server) selectLocation(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and country are required"})
		return
	}

	s.ctrl.Select(weather.Location{Name: req.Name, Country: req.Country})
	c.Status(http.StatusAccepted)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown. It also sweeps idle rate limiters until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	go s.limiter.RunCleanup(ctx, 15*time.Minute, time.Hour)

	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP server started")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
