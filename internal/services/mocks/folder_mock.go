// filepath: internal/services/mocks/folder_mock.go
package mocks

import (
	"photovault/internal/models"
	"photovault/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockFolderService is a mock implementation of services.FolderService
type MockFolderService struct {
	mock.Mock
}

var _ services.FolderService = (*MockFolderService)(nil)

func (m *MockFolderService) ListAlbums(vaultID *int64) ([]models.Album, error) {
	args := m.Called(vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Album), args.Error(1)
}

func (m *MockFolderService) CreateFolder(name string, parentID, vaultID *int64) (*models.Album, error) {
	args := m.Called(name, parentID, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Album), args.Error(1)
}

func (m *MockFolderService) RenameFolder(albumID int64, newName string) (*models.Album, error) {
	args := m.Called(albumID, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Album), args.Error(1)
}

func (m *MockFolderService) MoveFolder(albumID int64, newParentID, targetVaultID *int64) (*models.Album, error) {
	args := m.Called(albumID, newParentID, targetVaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Album), args.Error(1)
}

func (m *MockFolderService) DeleteFolder(albumID int64, deleteContents bool) error {
	args := m.Called(albumID, deleteContents)
	return args.Error(0)
}
