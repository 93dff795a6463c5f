// filepath: internal/services/mocks/vault_mock.go
package mocks

import (
	"photovault/internal/models"
	"photovault/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockVaultService is a mock implementation of services.VaultService
type MockVaultService struct {
	mock.Mock
}

var _ services.VaultService = (*MockVaultService)(nil)

func (m *MockVaultService) AddVault(path, displayName string) (*models.Vault, error) {
	args := m.Called(path, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultService) GetVault(id int64) (*models.Vault, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultService) ListVaults() ([]models.Vault, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vault), args.Error(1)
}

func (m *MockVaultService) UpdateVault(id int64, payload models.VaultUpdatePayload) (*models.Vault, error) {
	args := m.Called(id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultService) ReorderVaults(ids []int64) error {
	args := m.Called(ids)
	return args.Error(0)
}

func (m *MockVaultService) RemoveVault(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVaultService) SetDefaultVault(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVaultService) DefaultVault() (*models.Vault, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultService) ReadActivity(id int64, limit int) ([]models.ActivityEntry, error) {
	args := m.Called(id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityEntry), args.Error(1)
}
