// filepath: internal/services/mocks/trash_mock.go
package mocks

import (
	"photovault/internal/models"
	"photovault/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockTrashService is a mock implementation of services.TrashService
type MockTrashService struct {
	mock.Mock
}

var _ services.TrashService = (*MockTrashService)(nil)

func (m *MockTrashService) GetTrashInfo() (*models.TrashInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrashInfo), args.Error(1)
}

func (m *MockTrashService) EmptyTrash() (*models.EmptyTrashReport, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmptyTrashReport), args.Error(1)
}
