package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"soilviz/internal/domain"
	"soilviz/internal/service"
)

// MockInterpolationService is a mock implementation of service.InterpolationService.
type MockInterpolationService struct {
	mock.Mock
}

func (m *MockInterpolationService) Run(ctx context.Context, input service.UploadInput) (*domain.InterpolationResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterpolationResponse), args.Error(1)
}
