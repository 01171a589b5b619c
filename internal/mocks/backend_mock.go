package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBackend mocks domain.Backend
type MockBackend struct {
	mock.Mock
}

// Clone mocks cloning url into path
func (m *MockBackend) Clone(ctx context.Context, url, path string) error {
	args := m.Called(ctx, url, path)
	return args.Error(0)
}

// Fetch mocks fetching the working copy at path
func (m *MockBackend) Fetch(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
