package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sketchforge/studio/backend/internal/ai"
	apihttp "github.com/sketchforge/studio/backend/internal/api/http"
	"github.com/sketchforge/studio/backend/internal/api/middleware"
	"github.com/sketchforge/studio/backend/internal/autofix"
	"github.com/sketchforge/studio/backend/internal/console"
	"github.com/sketchforge/studio/backend/internal/infrastructure/config"
	"github.com/sketchforge/studio/backend/internal/infrastructure/logging"
	"github.com/sketchforge/studio/backend/internal/infrastructure/monitoring"
	"github.com/sketchforge/studio/backend/internal/notify"
	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/ws"
)

// Server wires the sandbox host: one project store, one telemetry store, one
// fix controller, the WebSocket relay, and the REST surface around them.
type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	done    chan struct{}
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing sandbox host",
		zap.String("port", cfg.Server.Port),
		zap.String("ai_base_url", cfg.AI.BaseURL),
	)

	metrics := monitoring.NewMetrics()

	files := project.NewStore()
	consoleStore := console.NewStore()
	notifications := notify.NewCenter(cfg.AutoFix.SuccessToastTTL)

	aiClient := ai.NewClient(cfg.AI)
	generator := ai.NewFixGenerator(aiClient)
	chat := ai.NewChatForwarder(aiClient, logger)

	fixes := autofix.NewController(autofix.Options{
		Cooldown:          cfg.AutoFix.Cooldown,
		Debounce:          cfg.AutoFix.Debounce,
		MaxRelatedFiles:   cfg.AutoFix.MaxRelatedFiles,
		ConsoleTailLines:  cfg.AutoFix.ConsoleTailLines,
		MinPriority:       cfg.AutoFix.MinPriority,
		MaxFixSourceBytes: cfg.AutoFix.MaxFixSourceBytes,
	}, files, consoleStore, notifications, generator, chat, logger).WithMetrics(metrics)

	relay := ws.NewHandler(files, consoleStore, fixes, logger, metrics)
	handlers := apihttp.NewHandlers(files, consoleStore, notifications, fixes, relay, cfg.Sandbox, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Project
	router.PUT("/project", handlers.ReplaceProject)
	router.GET("/project/files", handlers.ListFiles)
	router.GET("/project/file", handlers.GetFile)
	router.POST("/project/file", handlers.WriteFile)

	// Sandbox
	router.GET("/sandbox/document", handlers.GetDocument)
	router.POST("/sandbox/navigate", handlers.Navigate)
	router.POST("/sandbox/back", handlers.Back)
	router.POST("/sandbox/forward", handlers.Forward)
	router.GET("/sandbox/url", handlers.CurrentURL)
	router.POST("/sandbox/inspect-mode", handlers.SetInspectMode)
	router.GET("/sandbox/packages", handlers.ListPackages)
	router.GET("/sandbox/packages/probe", handlers.ProbePackages)

	// Telemetry
	router.GET("/console/logs", handlers.ListLogs)
	router.DELETE("/console/logs", handlers.ClearLogs)
	router.GET("/console/network", handlers.ListNetwork)
	router.DELETE("/console/network", handlers.ClearNetwork)

	// Auto-fix
	router.GET("/fixes/pending", handlers.PendingFix)
	router.POST("/fixes/confirm", handlers.ConfirmFix)
	router.POST("/fixes/decline", handlers.DeclineFix)
	router.POST("/fixes/chat", handlers.SendToChat)
	router.GET("/notifications", handlers.ListNotifications)
	router.DELETE("/notifications/:id", handlers.DismissNotification)

	// WebSocket
	router.GET("/stream", relay.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s := &Server{
		router:  router,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
	go s.uptimeLoop()

	logger.Info("Server initialized")
	return s, nil
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close releases background resources.
func (s *Server) Close() error {
	close(s.done)
	s.logger.Info("Server shut down")
	return s.logger.Sync()
}

func (s *Server) uptimeLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.metrics.UpdateUptime()
		case <-s.done:
			return
		}
	}
}
