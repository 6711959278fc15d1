package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/service"
)

// SessionHandler handles session inspection and export endpoints.
type SessionHandler struct {
	sessionService service.SessionService
	exportService  service.ExportService
	logger         *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, exportService service.ExportService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, exportService: exportService, logger: logger}
}

// Get handles GET /sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	state, err := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Export handles GET /sessions/:id/export?format=csv|xlsx
func (h *SessionHandler) Export(c *gin.Context) {
	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV))))

	result, err := h.exportService.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
