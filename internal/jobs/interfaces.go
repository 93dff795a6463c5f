// filepath: internal/jobs/interfaces.go
package jobs

import (
	"context"

	"photovault/internal/models"
)

// VaultLister lists the registered vaults.
type VaultLister interface {
	ListVaults() ([]models.Vault, error)
}

// Syncer reconciles one vault with its directory tree.
type Syncer interface {
	Sync(ctx context.Context, vaultID int64) (*models.SyncReport, error)
}

// Dependencies holds what the scheduler needs to run sync passes.
type Dependencies struct {
	Vaults VaultLister
	Syncer Syncer
}
