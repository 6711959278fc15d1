package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// FrontendHandler serves the single-page UI.
type FrontendHandler struct {
	path string
}

// NewFrontendHandler creates a FrontendHandler for the HTML file at path.
func NewFrontendHandler(path string) *FrontendHandler {
	return &FrontendHandler{path: path}
}

// Index handles GET /
func (h *FrontendHandler) Index(c *gin.Context) {
	info, err := os.Stat(h.path)
	if h.path == "" || err != nil || info.IsDir() {
		RespondError(c, http.StatusNotFound, "FRONTEND_NOT_FOUND", "frontend is not available")
		return
	}
	c.File(h.path)
}
