// Package http provides the HTTP adapter for the application layer. It is a
// thin translation layer: requests become service calls, domain errors become
// status codes.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/claim-adjudication/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config       ServerConfig
	httpServer   *http.Server
	router       *gin.Engine
	regService   service.RegistrationService
	reviewSvc    service.ReviewService
	confService  service.ConfirmationService
	claimService service.ClaimListService
	logger       Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	regService service.RegistrationService,
	reviewSvc service.ReviewService,
	confService service.ConfirmationService,
	claimService service.ClaimListService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:       config,
		router:       gin.New(),
		regService:   regService,
		reviewSvc:    reviewSvc,
		confService:  confService,
		claimService: claimService,
		logger:       logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.regService, s.reviewSvc, s.confService, s.claimService, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		api.POST("/registrations", handlers.CreateRegistration)
		api.GET("/registrations", handlers.ListRegistrations)
		api.GET("/registrations/:id", handlers.GetRegistration)
		api.PUT("/registrations/:id", handlers.UpdateRegistration)
		api.DELETE("/registrations/:id", handlers.DeleteRegistration)
		api.POST("/registrations/:id/material", handlers.ReceiveMaterial)
		api.POST("/registrations/:id/status", handlers.SetRegistrationStatus)

		api.POST("/registrations/:id/reviews", handlers.StartReview)
		api.GET("/registrations/:id/reviews", handlers.ListReviews)
		api.GET("/reviews/:id", handlers.GetReview)
		api.POST("/reviews/:id/submit", handlers.SubmitReview)
		api.POST("/reviews/:id/supplement", handlers.RequestSupplement)

		api.POST("/registrations/:id/confirmations", handlers.CreateConfirmation)
		api.GET("/registrations/:id/confirmations", handlers.ListConfirmations)
		api.GET("/confirmations/:id", handlers.GetConfirmation)
		api.POST("/confirmations/:id/vote", handlers.SubmitVote)
		api.POST("/confirmations/:id/objection", handlers.FileObjection)
		api.POST("/confirmations/:id/negotiation", handlers.ResolveNegotiation)
		api.POST("/confirmations/:id/court", handlers.EscalateToCourt)
		api.POST("/confirmations/:id/ruling", handlers.SubmitCourtRuling)
		api.POST("/confirmations/:id/lawsuit", handlers.EscalateToLawsuit)
		api.POST("/confirmations/:id/lawsuit/status", handlers.UpdateLawsuitStatus)
		api.POST("/confirmations/:id/finalize", handlers.Finalize)

		api.GET("/claims", handlers.ListClaims)
		api.GET("/claims/:id", handlers.GetClaim)
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
