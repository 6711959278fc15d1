package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/handler"
	"invoiceinsight/internal/router"
	"invoiceinsight/mocks"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newEngine(t *testing.T) (*gin.Engine, *mocks.MockChatService, *mocks.MockSessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{MaxUploadMB: 1, FrontendPath: ""},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	logger := zap.NewNop()
	chat := new(mocks.MockChatService)
	sessions := new(mocks.MockSessionService)

	r := router.Setup(cfg, logger, router.Handlers{
		Document: handler.NewDocumentHandler(new(mocks.MockDocumentService), logger),
		Chat:     handler.NewChatHandler(chat, logger),
		Session:  handler.NewSessionHandler(sessions, new(mocks.MockExportService), logger),
		Health:   handler.NewHealthHandler(okPinger{}),
		Frontend: handler.NewFrontendHandler(cfg.Server.FrontendPath),
	})
	return r, chat, sessions
}

func TestRouter_Routes(t *testing.T) {
	r, chat, sessions := newEngine(t)
	chat.On("Reply", mock.Anything, "hi", "default").Return("hello", nil)
	sessions.On("Get", mock.Anything, "abc").Return(&domain.SessionState{History: []domain.Turn{}}, nil)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/", "", http.StatusNotFound},
		{http.MethodPost, "/chat", `{"prompt":"hi"}`, http.StatusOK},
		{http.MethodGet, "/sessions/abc", "", http.StatusOK},
		{http.MethodPost, "/process", "", http.StatusBadRequest},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRouter_SetsRequestIDAndCORS(t *testing.T) {
	r, _, _ := newEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
