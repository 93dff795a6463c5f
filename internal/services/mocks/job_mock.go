// filepath: internal/services/mocks/job_mock.go
package mocks

import (
	"photovault/internal/jobs"
	"photovault/internal/models"
	"photovault/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockJobService is a mock implementation of services.JobService
type MockJobService struct {
	mock.Mock
}

var _ services.JobService = (*MockJobService)(nil)

func (m *MockJobService) StartScan(req models.ScanRequest) (*jobs.Job, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobService) StartSync(vaultID *int64) (*jobs.Job, error) {
	args := m.Called(vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobService) StartOrganize(req models.OrganizeRequest) (*jobs.Job, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobService) StartThumbnails(scope string) (*jobs.Job, error) {
	args := m.Called(scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobService) Status(kind models.JobKind) models.JobStatus {
	args := m.Called(kind)
	return args.Get(0).(models.JobStatus)
}

func (m *MockJobService) Cancel(kind models.JobKind) bool {
	args := m.Called(kind)
	return args.Bool(0)
}
