package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ridwanfathin/invoice-composer-service/internal/config"
	"github.com/ridwanfathin/invoice-composer-service/internal/handler"
	"github.com/ridwanfathin/invoice-composer-service/internal/metrics"
	"github.com/ridwanfathin/invoice-composer-service/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// Handlers groups the HTTP handlers mounted by the server
type Handlers struct {
	Health    *handler.HealthHandler
	Documents *handler.DocumentHandler
	Earnings  *handler.EarningsHandler
}

// Server represents the HTTP server for the invoice composer service
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	logger     *slog.Logger
	onShutdown []func()
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, auth gin.HandlerFunc, h Handlers) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics(m))
	router.Use(middleware.RequestLogger(logger))

	server := &Server{
		router: router,
		config: cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	server.setupRoutes(m, auth, h)

	return server
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// OnShutdown registers a function run after the HTTP server has stopped
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes(m *metrics.Metrics, auth gin.HandlerFunc, h Handlers) {
	if h.Health != nil {
		h.Health.RegisterRoutes(s.router)
	}
	if m != nil {
		s.router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Swagger UI at http://localhost:8080/api-docs/index.html
	s.router.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})

	if h.Documents != nil {
		h.Documents.RegisterRoutes(s.router, auth)
	}
	if h.Earnings != nil {
		h.Earnings.RegisterRoutes(s.router, auth)
	}
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		s.logger.Info("shutting down server", "signal", sig.String())
	}

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server and releases registered resources
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	for i := len(s.onShutdown) - 1; i >= 0; i-- {
		s.onShutdown[i]()
	}
	return err
}
