package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/handler"
	"invoiceinsight/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Document *handler.DocumentHandler
	Chat     *handler.ChatHandler
	Session  *handler.SessionHandler
	Health   *handler.HealthHandler
	Frontend *handler.FrontendHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, logger *zap.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	// Multipart parts beyond this spill to temp files; the upload limit itself is enforced by the document service.
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/", h.Frontend.Index)

	r.POST("/process", h.Document.Process)
	r.POST("/chat", h.Chat.Chat)

	sessions := r.Group("/sessions")
	sessions.GET("/:id", h.Session.Get)
	sessions.GET("/:id/export", h.Session.Export)

	return r
}
