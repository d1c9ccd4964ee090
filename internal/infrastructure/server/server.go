package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/avolkova/clouddisk/internal/api/http"
	"github.com/avolkova/clouddisk/internal/api/middleware"
	"github.com/avolkova/clouddisk/internal/domain/auth"
	"github.com/avolkova/clouddisk/internal/infrastructure/config"
	"github.com/avolkova/clouddisk/internal/infrastructure/logging"
	"github.com/avolkova/clouddisk/internal/infrastructure/monitoring"
	"github.com/avolkova/clouddisk/internal/storage"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router  *gin.Engine
	storage *storage.Service
	auth    *auth.Manager
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// New creates a new server instance.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing clouddisk server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_root", cfg.Storage.Root),
	)

	metrics := monitoring.NewMetrics()

	storageSvc := storage.NewService(storage.Config{
		Root:              cfg.Storage.Root,
		AllowedExtensions: cfg.Storage.AllowedExtensions,
	}, logger).WithMetrics(metrics)

	authManager := auth.NewManager(
		time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
	).WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(storageSvc, authManager, logger, cfg.Storage.MaxUploadBytes)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", handlers.Register)
	router.POST("/auth/login", handlers.Login)

	authed := router.Group("/", middleware.Auth(authManager))
	authed.POST("/auth/logout", handlers.Logout)
	authed.GET("/files/*path", handlers.Browse)
	authed.POST("/files/upload", handlers.Upload)
	authed.POST("/files/folders", handlers.CreateFolder)
	authed.DELETE("/files/*path", handlers.DeleteItem)
	authed.GET("/download/*path", handlers.Download)
	authed.GET("/view/*path", handlers.View)
	authed.GET("/folders", handlers.Folders)
	authed.GET("/search", handlers.Search)

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		storage: storageSvc,
		auth:    authManager,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Router exposes the gin engine. Used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.logger.Sync()
	return nil
}
