package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoiceinsight/internal/port"
)

// MockGenerator is a mock implementation of port.Generator.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts port.GenerateOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

// MockJSONGenerator is a MockGenerator whose JSON object mode is guaranteed.
type MockJSONGenerator struct {
	MockGenerator
}

func (m *MockJSONGenerator) SupportsJSONObject() bool { return true }
