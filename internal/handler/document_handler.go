package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/service"
)

// DocumentHandler handles document processing endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
	logger          *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, logger: logger}
}

// Process handles POST /process
// Multipart form: file (pdf or image), session_id (optional, "default").
func (h *DocumentHandler) Process(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	sessionID := c.DefaultPostForm("session_id", domain.DefaultSessionID)

	result, err := h.documentService.Process(c.Request.Context(), &service.ProcessInput{
		SessionID: sessionID,
		FileName:  header.Filename,
		Size:      header.Size,
		Content:   file,
	})
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	if result.Checks == nil {
		result.Checks = []domain.Finding{}
	}
	c.JSON(http.StatusOK, result)
}
