// filepath: internal/services/mocks/sync_mock.go
package mocks

import (
	"context"

	"photovault/internal/models"
	"photovault/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockSyncService is a mock implementation of services.SyncService
type MockSyncService struct {
	mock.Mock
}

var _ services.SyncService = (*MockSyncService)(nil)

func (m *MockSyncService) Sync(ctx context.Context, vaultID int64) (*models.SyncReport, error) {
	args := m.Called(ctx, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncReport), args.Error(1)
}
