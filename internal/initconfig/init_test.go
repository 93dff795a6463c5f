// filepath: internal/initconfig/init_test.go
package initconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"photovault/internal/models"
	"photovault/internal/services/mocks"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeInit(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "init.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_RegistersNewVaults(t *testing.T) {
	path := writeInit(t, `
default_vault = "/photos/family"

[[vault]]
path = "/photos/family"
name = "Family"

[[vault]]
path = "/photos/archive"
hidden = true

[[vault]]
path = "/photos/existing"

[[vault]]
path = ""
`)
	svc := new(mocks.MockVaultService)
	svc.On("ListVaults").Return([]models.Vault{{ID: 1, RootPath: "/photos/existing"}}, nil)
	svc.On("AddVault", "/photos/family", "Family").Return(&models.Vault{ID: 2, RootPath: "/photos/family", DisplayName: "Family"}, nil)
	svc.On("AddVault", "/photos/archive", "").Return(&models.Vault{ID: 3, RootPath: "/photos/archive", DisplayName: "archive"}, nil)
	svc.On("UpdateVault", int64(3), mock.MatchedBy(func(p models.VaultUpdatePayload) bool {
		return p.Visible != nil && !*p.Visible
	})).Return(&models.Vault{ID: 3}, nil)
	svc.On("SetDefaultVault", int64(2)).Return(nil)

	Run(svc, path)

	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "AddVault", "/photos/existing", mock.Anything)
}

func TestRun_FailedRegistrationContinues(t *testing.T) {
	path := writeInit(t, `
default_vault = "/photos/missing"

[[vault]]
path = "/photos/missing"

[[vault]]
path = "/photos/ok"
`)
	svc := new(mocks.MockVaultService)
	svc.On("ListVaults").Return([]models.Vault{}, nil)
	svc.On("AddVault", "/photos/missing", "").Return(nil, errors.New("not a directory"))
	svc.On("AddVault", "/photos/ok", "").Return(&models.Vault{ID: 5, RootPath: "/photos/ok"}, nil)

	Run(svc, path)

	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "SetDefaultVault", mock.Anything)
}

func TestRun_UnreadableFile(t *testing.T) {
	svc := new(mocks.MockVaultService)

	Run(svc, filepath.Join(t.TempDir(), "missing.toml"))
	Run(svc, writeInit(t, "[[vault]\npath ="))

	svc.AssertNotCalled(t, "ListVaults")
}
