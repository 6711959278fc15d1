package insight_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/insight"
	"invoiceinsight/internal/port"
	"invoiceinsight/mocks"
)

func sampleRecord() *domain.InvoiceRecord {
	vendor := "Acme Corp"
	total := 1234.56
	return &domain.InvoiceRecord{
		Vendor:    &vendor,
		LineItems: []domain.LineItem{},
		Total:     &total,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := insight.BuildPrompt(sampleRecord())

	require.NoError(t, err)
	assert.Contains(t, prompt, `"vendor":"Acme Corp"`)
	assert.Contains(t, prompt, `"total":1234.56`)
	assert.Contains(t, prompt, "2-3 sentences")
	assert.Contains(t, prompt, "top 3 expense categories")
	assert.Contains(t, prompt, "bullet points")
}

func TestSummarize_ReturnsRawText(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "Given this invoice data: {")
	}), port.GenerateOptions{MaxTokens: 400}).Return("  - Office supplies\n", nil).Once()

	text, err := insight.NewStage(gen, zap.NewNop()).Summarize(context.Background(), sampleRecord())

	require.NoError(t, err)
	assert.Equal(t, "  - Office supplies\n", text)
	gen.AssertExpectations(t)
}

func TestSummarize_ModelError(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout")).Once()

	_, err := insight.NewStage(gen, zap.NewNop()).Summarize(context.Background(), sampleRecord())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
