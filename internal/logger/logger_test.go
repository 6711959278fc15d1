package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/logger"
)

func TestNew_ConsoleFormat(t *testing.T) {
	l, err := logger.New(&config.LogConfig{Level: "info", Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_JSONFormat(t *testing.T) {
	l, err := logger.New(&config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(&config.LogConfig{Level: "loud", Format: "console"})
	assert.Error(t, err)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := logger.New(&config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
