package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/service"
)

// ChatRequest is the body of POST /chat, accepted as JSON or form fields.
type ChatRequest struct {
	Prompt    string `json:"prompt" form:"prompt"`
	SessionID string `json:"session_id" form:"session_id"`
}

// ChatHandler handles the conversational endpoint.
type ChatHandler struct {
	chatService service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = domain.DefaultSessionID
	}

	reply, err := h.chatService.Reply(c.Request.Context(), req.Prompt, req.SessionID)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
