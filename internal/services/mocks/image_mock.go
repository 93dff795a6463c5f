// filepath: internal/services/mocks/image_mock.go
package mocks

import (
	"photovault/internal/models"
	"photovault/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockImageService is a mock implementation of services.ImageService
type MockImageService struct {
	mock.Mock
}

var _ services.ImageService = (*MockImageService)(nil)

func (m *MockImageService) MoveImageToAlbum(imageID int64, albumID *int64) (*models.Image, error) {
	args := m.Called(imageID, albumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) MoveImageToTrash(imageID int64) error {
	args := m.Called(imageID)
	return args.Error(0)
}

func (m *MockImageService) MoveImageToSortLater(imageID int64) (*models.Image, error) {
	args := m.Called(imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) BatchMoveImages(ids []int64, albumID *int64) []models.BatchResult {
	args := m.Called(ids, albumID)
	return args.Get(0).([]models.BatchResult)
}

func (m *MockImageService) BatchTrashImages(ids []int64) []models.BatchResult {
	args := m.Called(ids)
	return args.Get(0).([]models.BatchResult)
}

func (m *MockImageService) AssignImage(imageID int64, albumID *int64) (*models.Image, error) {
	args := m.Called(imageID, albumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageService) MarkImage(imageID int64, status models.ImageStatus) (*models.Image, error) {
	args := m.Called(imageID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}
