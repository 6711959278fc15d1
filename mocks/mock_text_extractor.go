package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoiceinsight/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, doc domain.RawDocument) string {
	args := m.Called(ctx, doc)
	return args.String(0)
}
