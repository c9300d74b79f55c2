package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"soilviz/internal/domain"
)

// MockRunner is a mock implementation of interp.Runner.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, boundaryPath, samplePath, outputPath string) (*domain.InterpolationResult, error) {
	args := m.Called(ctx, boundaryPath, samplePath, outputPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterpolationResult), args.Error(1)
}
