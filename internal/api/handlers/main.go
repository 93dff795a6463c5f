// filepath: internal/api/handlers/main.go
package handlers

import (
	"photovault/internal/config"
	"photovault/internal/services"
)

// Handlers holds the services the API handlers delegate to.
type Handlers struct {
	Info    services.InfoService
	Vaults  services.VaultService
	Folders services.FolderService
	Images  services.ImageService
	Trash   services.TrashService
	Jobs    services.JobService

	Cfg *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	vaults services.VaultService,
	folders services.FolderService,
	images services.ImageService,
	trash services.TrashService,
	jobs services.JobService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Info:    info,
		Vaults:  vaults,
		Folders: folders,
		Images:  images,
		Trash:   trash,
		Jobs:    jobs,
		Cfg:     cfg,
	}
}
